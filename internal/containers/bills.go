package containers

import (
	"context"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/store"
	"billed/internal/views"
)

// Bills is the bills page controller.
type Bills struct {
	store      store.Client
	onNavigate Navigate
	logger     *log.Logger
}

func NewBills(client store.Client, onNavigate Navigate, logger *log.Logger) *Bills {
	if logger == nil {
		logger = log.New(log.Config{Level: log.LevelFromEnv()})
	}
	return &Bills{
		store:      client,
		onNavigate: onNavigate,
		logger:     logger.WithComponent(log.ComponentBills),
	}
}

// GetBills fetches the bill records and shapes them for display. A record
// whose date cannot be formatted is kept with its raw date rather than
// dropped. Store failures propagate unchanged so the page can show the
// message verbatim.
func (b *Bills) GetBills(ctx context.Context) ([]views.BillRow, error) {
	bills, err := b.store.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]views.BillRow, 0, len(bills))
	for _, bill := range bills {
		display, err := core.FormatDate(bill.Date)
		if err != nil {
			b.logger.WarnContext(ctx, "Corrupted bill date, keeping raw value",
				log.FieldBillID, bill.ID,
				"date", bill.Date,
				log.FieldError, err)
			display = bill.Date
		}
		rows = append(rows, views.BillRow{
			ID:              bill.ID,
			Type:            bill.Type,
			Name:            bill.Name,
			Date:            display,
			UnformattedDate: bill.Date,
			Amount:          bill.Amount.String(),
			Status:          core.FormatStatus(bill.Status),
			FileURL:         bill.FileURL,
			FileName:        bill.FileName,
		})
	}
	return rows, nil
}

// HandleClickIconEye returns the receipt modal state for one bill.
func (b *Bills) HandleClickIconEye(fileURL string) views.ReceiptModal {
	return views.ReceiptModal{ImageURL: fileURL, Visible: true}
}

// HandleClickNewBill navigates to the new bill form.
func (b *Bills) HandleClickNewBill() {
	if b.onNavigate != nil {
		b.onNavigate(PathNewBill)
	}
}
