package containers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/session"
	"billed/internal/store"
)

type alertSpy struct {
	messages []string
}

func (a *alertSpy) fire(msg string) { a.messages = append(a.messages, msg) }

func newBillUnderTest(client *fakeClient, nav Navigate, alerts *alertSpy, logger *log.Logger) (*NewBill, *PendingReceipts, *session.Memory) {
	sess := session.NewMemory()
	_ = sess.SetUser(session.User{Type: "Employee", Email: "a@a"})
	pending := NewPendingReceipts()
	n := NewNewBill(client, sess, pending, nav, alerts.fire, logger)
	return n, pending, sess
}

func TestHandleChangeFileRejectsUnsupportedType(t *testing.T) {
	logger, _ := captureLogger()
	alerts := &alertSpy{}
	client := &fakeClient{}
	n, pending, _ := newBillUnderTest(client, nil, alerts, logger)

	err := n.HandleChangeFile(context.Background(), "facture.pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, core.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if len(alerts.messages) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(alerts.messages))
	}
	if alerts.messages[0] != AlertUnsupportedFile {
		t.Fatalf("unexpected alert: %q", alerts.messages[0])
	}
	if client.createCalls != 0 {
		t.Fatal("rejected file must not be uploaded")
	}
	if _, ok := pending.Get("a@a"); ok {
		t.Fatal("rejected file must not be retained")
	}
}

func TestHandleChangeFileAcceptsSupportedTypes(t *testing.T) {
	for _, name := range []string{"photo.jpg", "photo.jpeg", "photo.png", "PHOTO.PNG"} {
		logger, _ := captureLogger()
		alerts := &alertSpy{}
		client := &fakeClient{created: store.Created{BillID: "b1", FileURL: "/receipts/x.jpg", FileName: "x.jpg"}}
		n, pending, _ := newBillUnderTest(client, nil, alerts, logger)

		if err := n.HandleChangeFile(context.Background(), name, strings.NewReader("img")); err != nil {
			t.Fatalf("HandleChangeFile(%q): %v", name, err)
		}
		if len(alerts.messages) != 0 {
			t.Fatalf("%q: unexpected alerts %v", name, alerts.messages)
		}
		draft, ok := pending.Get("a@a")
		if !ok || draft.BillID != "b1" {
			t.Fatalf("%q: draft not retained: %+v", name, draft)
		}
	}
}

func TestHandleChangeFileReplacesPreviousSelection(t *testing.T) {
	logger, _ := captureLogger()
	alerts := &alertSpy{}
	client := &fakeClient{created: store.Created{BillID: "b1", FileURL: "/receipts/x.jpg", FileName: "x.jpg"}}
	n, pending, _ := newBillUnderTest(client, nil, alerts, logger)

	if err := n.HandleChangeFile(context.Background(), "a.jpg", strings.NewReader("img")); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	// A rejected second choice clears the first one too.
	if err := n.HandleChangeFile(context.Background(), "b.pdf", strings.NewReader("%PDF")); err == nil {
		t.Fatal("expected rejection")
	}
	if _, ok := pending.Get("a@a"); ok {
		t.Fatal("previous selection must be cleared after a rejected file")
	}
}

func TestHandleSubmitSuccess(t *testing.T) {
	logger, _ := captureLogger()
	alerts := &alertSpy{}
	client := &fakeClient{}
	var gone string
	n, pending, _ := newBillUnderTest(client, func(pathname string) { gone = pathname }, alerts, logger)
	pending.Set("a@a", store.Created{BillID: "b1", FileURL: "/receipts/x.jpg", FileName: "x.jpg"})

	err := n.HandleSubmit(context.Background(), Fields{
		Type:       "Transports",
		Name:       "Vol Paris Londres",
		Date:       "2004-04-04",
		Amount:     "348",
		VAT:        "70",
		Pct:        "",
		Commentary: "séminaire billed",
	})
	if err != nil {
		t.Fatalf("HandleSubmit: %v", err)
	}
	if gone != PathBills {
		t.Fatalf("navigated to %q, want %q", gone, PathBills)
	}
	if len(client.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(client.updated))
	}
	got := client.updated[0]
	if got.ID != "b1" || got.Email != "a@a" {
		t.Fatalf("wrong bill identity: %+v", got)
	}
	if got.Amount.Cents != 34800 || got.VAT != 70 {
		t.Fatalf("wrong amounts: %+v", got)
	}
	if got.Pct != core.DefaultPct {
		t.Fatalf("blank pct must default to %d, got %d", core.DefaultPct, got.Pct)
	}
	if got.FileURL != "/receipts/x.jpg" || got.FileName != "x.jpg" {
		t.Fatalf("receipt not carried over: %+v", got)
	}
	if _, ok := pending.Get("a@a"); ok {
		t.Fatal("pending draft must be cleared after submit")
	}
}

func TestHandleSubmitFailureLogsExactMessage(t *testing.T) {
	for _, msg := range []string{"Erreur 404", "Erreur 500"} {
		logger, handler := captureLogger()
		alerts := &alertSpy{}
		client := &fakeClient{updateErr: errors.New(msg)}
		var gone string
		n, pending, _ := newBillUnderTest(client, func(pathname string) { gone = pathname }, alerts, logger)
		pending.Set("a@a", store.Created{BillID: "b1", FileURL: "/receipts/x.jpg", FileName: "x.jpg"})

		err := n.HandleSubmit(context.Background(), Fields{Amount: "348", Date: "2004-04-04"})
		if err == nil {
			t.Fatalf("%s: expected error", msg)
		}
		if gone != "" {
			t.Fatalf("%s: must stay on the form, navigated to %q", msg, gone)
		}

		logged := false
		for _, m := range handler.all() {
			if m == msg {
				logged = true
			}
		}
		if !logged {
			t.Fatalf("%s: exact message not logged, got %v", msg, handler.all())
		}
	}
}

func TestHandleSubmitWithoutReceipt(t *testing.T) {
	logger, _ := captureLogger()
	alerts := &alertSpy{}
	n, _, _ := newBillUnderTest(&fakeClient{}, nil, alerts, logger)

	err := n.HandleSubmit(context.Background(), Fields{Amount: "348", Date: "2004-04-04"})
	if !errors.Is(err, ErrNoReceipt) {
		t.Fatalf("expected ErrNoReceipt, got %v", err)
	}
	if len(alerts.messages) != 1 || alerts.messages[0] != AlertNoReceipt {
		t.Fatalf("unexpected alerts: %v", alerts.messages)
	}
}

func TestHandleChangeFileWithoutSession(t *testing.T) {
	logger, _ := captureLogger()
	n := NewNewBill(&fakeClient{}, session.NewMemory(), NewPendingReceipts(), nil, nil, logger)

	err := n.HandleChangeFile(context.Background(), "a.jpg", strings.NewReader("img"))
	if !errors.Is(err, session.ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}
