package views

import (
	"strings"
	"testing"
)

func testRows() []BillRow {
	return []BillRow{
		{ID: "b1", Type: "Transports", Name: "Vol Paris Londres", Date: "1 Jan. 01", UnformattedDate: "2001-01-01", Amount: "348 €", Status: "En attente", FileURL: "/receipts/a.jpg"},
		{ID: "b2", Type: "Restaurants et bars", Name: "Déjeuner client", Date: "4 Avr. 04", UnformattedDate: "2004-04-04", Amount: "56 €", Status: "Accepté", FileURL: "/receipts/b.jpg"},
		{ID: "b3", Type: "Services en ligne", Name: "Abonnement", Date: "2 Fév. 02", UnformattedDate: "2002-02-02", Amount: "12 €", Status: "Refusé", FileURL: "/receipts/c.png"},
	}
}

func TestBillsOrdersAntiChronologically(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var sb strings.Builder
	if err := r.Bills(&sb, BillsData{Rows: testRows()}); err != nil {
		t.Fatalf("Bills: %v", err)
	}
	html := sb.String()

	first := strings.Index(html, "4 Avr. 04")
	second := strings.Index(html, "2 Fév. 02")
	third := strings.Index(html, "1 Jan. 01")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("missing dates in output:\n%s", html)
	}
	if !(first < second && second < third) {
		t.Fatalf("rows not anti-chronological: %d %d %d", first, second, third)
	}
}

func TestBillsDoesNotMutateInput(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rows := testRows()
	if err := r.Bills(&strings.Builder{}, BillsData{Rows: rows}); err != nil {
		t.Fatalf("Bills: %v", err)
	}
	if rows[0].ID != "b1" || rows[2].ID != "b3" {
		t.Fatalf("input slice reordered: %+v", rows)
	}
}

func TestBillsMarkup(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var sb strings.Builder
	if err := r.Bills(&sb, BillsData{Rows: testRows()}); err != nil {
		t.Fatalf("Bills: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		`data-testid="tbody"`,
		`data-testid="btn-new-bill"`,
		`data-testid="icon-window"`,
		`data-testid="icon-eye"`,
		`data-bill-url="/receipts/a.jpg"`,
		"Mes notes de frais",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("bills page missing %q", want)
		}
	}
}

func TestBillsLoadingAndError(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var sb strings.Builder
	if err := r.Bills(&sb, BillsData{Loading: true}); err != nil {
		t.Fatalf("Bills: %v", err)
	}
	if !strings.Contains(sb.String(), "Loading...") {
		t.Fatal("loading page missing Loading...")
	}

	sb.Reset()
	if err := r.Bills(&sb, BillsData{Error: "Erreur 404"}); err != nil {
		t.Fatalf("Bills: %v", err)
	}
	if !strings.Contains(sb.String(), "Erreur 404") {
		t.Fatal("error page missing verbatim error message")
	}
	if strings.Contains(sb.String(), `data-testid="tbody"`) {
		t.Fatal("error page must not render the table")
	}
}

func TestNewBillMarkup(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var sb strings.Builder
	if err := r.NewBill(&sb, NewBillData{Alerts: []string{"Seuls les fichiers jpg, jpeg ou png sont acceptés."}}); err != nil {
		t.Fatalf("NewBill: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		`data-testid="form-new-bill"`,
		`data-testid="expense-type"`,
		`data-testid="expense-name"`,
		`data-testid="datepicker"`,
		`data-testid="amount"`,
		`data-testid="vat"`,
		`data-testid="pct"`,
		`data-testid="commentary"`,
		`data-testid="file"`,
		"Seuls les fichiers jpg, jpeg ou png sont acceptés.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("new bill page missing %q", want)
		}
	}
}

func TestModal(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var sb strings.Builder
	if err := r.Modal(&sb, ReceiptModal{ImageURL: "/receipts/a.jpg", Visible: true}); err != nil {
		t.Fatalf("Modal: %v", err)
	}
	html := sb.String()
	if !strings.Contains(html, `src="/receipts/a.jpg"`) {
		t.Fatalf("modal missing image src:\n%s", html)
	}
	if !strings.Contains(html, `data-visible="true"`) {
		t.Fatal("visible modal missing data-visible")
	}
}
