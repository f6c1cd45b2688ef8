// Package storage persists bill records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"billed/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateDraft opens a draft bill holding only the receipt reference and the
// owner's email. The draft stays out of listings until Update promotes it.
func (r *Repository) CreateDraft(ctx context.Context, email, fileURL, fileName string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (id, email, file_url, file_name, status) VALUES (?, ?, ?, ?, '')`,
		id, email, fileURL, fileName)
	if err != nil {
		return "", fmt.Errorf("create draft bill: %w", err)
	}

	slog.InfoContext(ctx, "Draft bill created",
		"id", id,
		"email", email,
		"file_name", fileName)

	return id, nil
}

// Update fills in a bill's submitted fields and promotes it to pending.
func (r *Repository) Update(ctx context.Context, b core.Bill) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills
		    SET email = ?, type = ?, name = ?, amount_cents = ?, date = ?,
		        vat = ?, pct = ?, commentary = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ?`,
		b.Email, b.Type, b.Name, b.Amount.Cents, b.Date,
		b.VAT, b.Pct, b.Commentary, string(core.StatusPending), b.ID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Bill{}, fmt.Errorf("update bill %s: %w", b.ID, sql.ErrNoRows)
	}

	return r.Get(ctx, b.ID)
}

// Get returns a single bill by id.
func (r *Repository) Get(ctx context.Context, id string) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx, selectBill+` WHERE id = ?`, id)
	b, err := scanBill(row)
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill %s: %w", id, err)
	}
	return b, nil
}

// List returns every submitted bill, raw dates in ISO form. Drafts awaiting
// submission are excluded. No ordering is imposed here; the view layer sorts.
func (r *Repository) List(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, selectBill+` WHERE status <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

const selectBill = `SELECT id, email, type, name, amount_cents, date, vat, pct,
       commentary, file_url, file_name, status FROM bills`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (core.Bill, error) {
	var b core.Bill
	var status string
	err := row.Scan(&b.ID, &b.Email, &b.Type, &b.Name, &b.Amount.Cents, &b.Date,
		&b.VAT, &b.Pct, &b.Commentary, &b.FileURL, &b.FileName, &status)
	if err != nil {
		return core.Bill{}, err
	}
	b.Status = core.Status(status)
	return b, nil
}

// PendingExport is the minimal view of a bill awaiting accounting export.
type PendingExport struct {
	ID        string
	CreatedAt time.Time
}

// ListPendingExport returns submitted bills not yet handed to accounting.
// Used by the export worker as a catch-up pass for missed messages.
func (r *Repository) ListPendingExport(ctx context.Context, limit int) ([]PendingExport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM bills
		  WHERE status = ? AND exported_at IS NULL
		  ORDER BY created_at LIMIT ?`,
		string(core.StatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	var pending []PendingExport
	for rows.Next() {
		var p PendingExport
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkExported stamps a bill as handed to accounting.
func (r *Repository) MarkExported(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bills SET exported_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	slog.InfoContext(ctx, "Bill marked as exported", "id", id)
	return nil
}

// MarkExportError bumps the export attempt counter after a failed export.
func (r *Repository) MarkExportError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bills SET export_attempts = export_attempts + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Bill export attempt failed", "id", id)
	return nil
}
