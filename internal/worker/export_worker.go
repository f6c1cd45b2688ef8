// Package worker hands submitted bills to the accounting ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"billed/internal/amqp"
	"billed/internal/core"
	"billed/internal/sheets"
	"billed/internal/storage"
)

// ExportWorker exports submitted bills from SQLite to the accounting
// spreadsheet, driven by AMQP messages with a periodic catch-up pass.
type ExportWorker struct {
	storage   *storage.Repository
	ledger    sheets.BillAppender
	batchSize int
}

func NewExportWorker(storage *storage.Repository, ledger sheets.BillAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSubmittedMessage exports the bill named by one AMQP message.
func (w *ExportWorker) HandleSubmittedMessage(ctx context.Context, msg *amqp.BillSubmittedMessage) error {
	slog.InfoContext(ctx, "Processing bill submitted message", "id", msg.ID)

	bill, err := w.storage.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get bill from storage: %w", err)
	}

	return w.exportBill(ctx, bill.ID, bill)
}

// ProcessPendingExports exports bills whose messages were lost. Backup
// mechanism, run periodically.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.storage.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, p := range pending {
		bill, err := w.storage.Get(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get bill", "id", p.ID, "error", err)
			if err := w.storage.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.exportBill(ctx, p.ID, bill); err != nil {
			slog.ErrorContext(ctx, "Failed to export bill", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

func (w *ExportWorker) exportBill(ctx context.Context, id string, bill core.Bill) error {
	ref, err := w.ledger.Append(ctx, bill)
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkExported(ctx, id); err != nil {
		// The export itself worked; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Bill exported",
		"id", id,
		"ledger_ref", ref,
		"email", bill.Email,
		"amount_cents", bill.Amount.Cents)

	return nil
}
