package memory

import (
	"context"
	"testing"

	"billed/internal/core"
)

func validBill() core.Bill {
	return core.Bill{
		ID:       "b1",
		Email:    "a@a",
		Type:     "Transports",
		Name:     "Vol Paris Londres",
		Amount:   core.Money{Cents: 34800},
		Date:     "2004-04-04",
		FileURL:  "/receipts/r.jpg",
		FileName: "r.jpg",
		Status:   core.StatusPending,
	}
}

func TestAppendAndItems(t *testing.T) {
	l := New()
	ref, err := l.Append(context.Background(), validBill())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("unexpected ref %q", ref)
	}
	if got := l.Items(); len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	l := New()
	b := validBill()
	b.Date = "not-a-date"
	if _, err := l.Append(context.Background(), b); err == nil {
		t.Fatal("expected validation error")
	}
}
