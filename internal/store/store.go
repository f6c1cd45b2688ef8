// Package store defines the narrow client port over bill persistence. The
// controllers depend on this interface only; the concrete implementation
// lives in internal/services.
package store

import (
	"context"
	"io"

	"billed/internal/core"
)

// Receipt is an uploaded receipt attachment.
type Receipt struct {
	Email    string
	FileName string
	Content  io.Reader
}

// Created identifies the draft bill produced by a receipt upload.
type Created struct {
	BillID   string
	FileURL  string
	FileName string
}

// Client exposes the two capabilities the controllers need: listing bill
// records and creating/updating one. Every call returns either data or an
// error whose message is suitable for display.
type Client interface {
	// List returns the raw bill records, dates in ISO-8601 form.
	List(ctx context.Context) ([]core.Bill, error)

	// Create persists the receipt and opens a draft bill around it.
	Create(ctx context.Context, r Receipt) (Created, error)

	// Update fills in the draft with the submitted fields; the persisted
	// record comes back with status pending.
	Update(ctx context.Context, b core.Bill) (core.Bill, error)
}
