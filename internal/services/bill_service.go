// Package services wires the storage, receipt and messaging layers into the
// store client the controllers consume.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"billed/internal/amqp"
	"billed/internal/core"
	"billed/internal/receipts"
	"billed/internal/storage"
	"billed/internal/store"
)

// BillService implements store.Client over SQLite, disk-backed receipts and
// an optional AMQP announcement to the export pipeline.
type BillService struct {
	storage    *storage.Repository
	receipts   *receipts.Store
	amqpClient *amqp.Client
}

var _ store.Client = (*BillService)(nil)

func NewBillService(storage *storage.Repository, receipts *receipts.Store, amqpClient *amqp.Client) *BillService {
	return &BillService{
		storage:    storage,
		receipts:   receipts,
		amqpClient: amqpClient,
	}
}

// List returns the raw submitted bill records.
func (s *BillService) List(ctx context.Context) ([]core.Bill, error) {
	bills, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

// Create stores the receipt content and opens a draft bill around it.
func (s *BillService) Create(ctx context.Context, r store.Receipt) (store.Created, error) {
	fileURL, storedName, err := s.receipts.Save(r.FileName, r.Content)
	if err != nil {
		return store.Created{}, fmt.Errorf("save receipt: %w", err)
	}

	id, err := s.storage.CreateDraft(ctx, r.Email, fileURL, r.FileName)
	if err != nil {
		return store.Created{}, fmt.Errorf("create bill: %w", err)
	}

	slog.InfoContext(ctx, "Receipt stored",
		"bill_id", id,
		"file_name", r.FileName,
		"stored_name", storedName)

	return store.Created{BillID: id, FileURL: fileURL, FileName: r.FileName}, nil
}

// Update persists the submitted bill and announces it to the export
// pipeline. A failed announcement never fails the submission; the worker's
// catch-up pass picks the bill up later.
func (s *BillService) Update(ctx context.Context, b core.Bill) (core.Bill, error) {
	persisted, err := s.storage.Update(ctx, b)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping bill submitted message", "id", persisted.ID)
		return persisted, nil
	}
	if err := s.amqpClient.PublishBillSubmitted(ctx, persisted.ID, persisted.Email); err != nil {
		slog.ErrorContext(ctx, "Failed to publish bill submitted message",
			"id", persisted.ID, "error", err)
	}

	return persisted, nil
}

// Close closes storage and messaging connections.
func (s *BillService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close bill service: %v", errs)
	}
	return nil
}
