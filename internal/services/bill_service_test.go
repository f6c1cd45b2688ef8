package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"billed/internal/core"
	"billed/internal/receipts"
	"billed/internal/storage"
	"billed/internal/store"
)

func newTestService(t *testing.T) *BillService {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "bills.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	rcpts, err := receipts.NewStore(t.TempDir(), "/receipts")
	if err != nil {
		t.Fatalf("receipts.NewStore: %v", err)
	}
	svc := NewBillService(repo, rcpts, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestCreateThenUpdateThenList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, store.Receipt{
		Email:    "a@a",
		FileName: "chucknorris.jpg",
		Content:  strings.NewReader("jpeg bytes"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.BillID == "" || created.FileURL == "" || created.FileName != "chucknorris.jpg" {
		t.Fatalf("unexpected created: %+v", created)
	}

	persisted, err := svc.Update(ctx, core.Bill{
		ID:     created.BillID,
		Email:  "a@a",
		Type:   "Transports",
		Name:   "Vol Paris Londres",
		Amount: core.Money{Cents: 34800},
		Date:   "2004-04-04",
		Pct:    20,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if persisted.Status != core.StatusPending {
		t.Fatalf("status = %q, want pending", persisted.Status)
	}

	bills, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bills) != 1 || bills[0].ID != created.BillID {
		t.Fatalf("unexpected list: %+v", bills)
	}
}

func TestUpdateWithoutDraftFails(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Update(context.Background(), core.Bill{ID: "nope", Email: "a@a"})
	if err == nil {
		t.Fatal("expected error for unknown draft")
	}
}
