// Package views renders the employee-facing pages from the embedded
// templates. Row ordering happens here so every caller gets the same
// anti-chronological bills table.
package views

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"billed/internal/core"
	"billed/web"
)

// BillRow is one line of the bills table, already formatted for display.
// UnformattedDate keeps the raw stored date so ordering stays correct even
// when Date fell back to a raw value.
type BillRow struct {
	ID              string
	Type            string
	Name            string
	Date            string
	UnformattedDate string
	Amount          string
	Status          string
	FileURL         string
	FileName        string
}

// BillsData drives the bills page. Loading wins over Error, Error wins over
// the table.
type BillsData struct {
	Rows    []BillRow
	Loading bool
	Error   string
}

// NewBillData drives the new bill form. Alerts are shown above the form.
type NewBillData struct {
	Alerts []string
}

// ReceiptModal is the state of the receipt preview dialog.
type ReceiptModal struct {
	ImageURL string
	Visible  bool
}

// Renderer executes the embedded templates.
type Renderer struct {
	t *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Bills renders the bills page. Rows are sorted newest first on the raw
// stored date; the input slice is left untouched.
func (r *Renderer) Bills(w io.Writer, data BillsData) error {
	rows := make([]BillRow, len(data.Rows))
	copy(rows, data.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return core.AntiChrono(rows[i].UnformattedDate, rows[j].UnformattedDate)
	})
	data.Rows = rows

	if err := r.t.ExecuteTemplate(w, "bills.html", data); err != nil {
		return fmt.Errorf("render bills: %w", err)
	}
	return nil
}

// NewBill renders the new bill form.
func (r *Renderer) NewBill(w io.Writer, data NewBillData) error {
	if err := r.t.ExecuteTemplate(w, "newbill.html", data); err != nil {
		return fmt.Errorf("render new bill: %w", err)
	}
	return nil
}

// Modal renders the receipt preview fragment.
func (r *Renderer) Modal(w io.Writer, m ReceiptModal) error {
	if err := r.t.ExecuteTemplate(w, "receipt_modal.html", m); err != nil {
		return fmt.Errorf("render receipt modal: %w", err)
	}
	return nil
}
