package amqp

import (
	"testing"
	"time"
)

func TestNewBillSubmittedMessage(t *testing.T) {
	msg := NewBillSubmittedMessage("b-42", "a@a")
	if msg.ID != "b-42" || msg.Email != "a@a" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Second {
		t.Fatal("timestamp should be recent")
	}
}

func TestBillSubmittedMessageJSON(t *testing.T) {
	msg := &BillSubmittedMessage{
		ID:        "b-1",
		Email:     "employee@test.tld",
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	parsed, err := BillSubmittedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if parsed.ID != msg.ID || parsed.Email != msg.Email || !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}

	if _, err := BillSubmittedMessageFromJSON([]byte(`{"id": 3}`)); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
