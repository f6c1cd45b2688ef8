package containers

import (
	"context"
	"errors"
	"io"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/session"
	"billed/internal/store"
)

// Warnings surfaced through the Alert callback.
const (
	AlertUnsupportedFile = "Seuls les fichiers jpg, jpeg ou png sont acceptés."
	AlertNoReceipt       = "Veuillez choisir un justificatif au format jpg, jpeg ou png."
)

// Fields carries the raw form values of the new bill form.
type Fields struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

// NewBill is the new bill form controller.
type NewBill struct {
	store      store.Client
	session    session.Store
	onNavigate Navigate
	alert      Alert
	pending    *PendingReceipts
	logger     *log.Logger
}

func NewNewBill(client store.Client, sess session.Store, pending *PendingReceipts, onNavigate Navigate, alert Alert, logger *log.Logger) *NewBill {
	if logger == nil {
		logger = log.New(log.Config{Level: log.LevelFromEnv()})
	}
	return &NewBill{
		store:      client,
		session:    sess,
		onNavigate: onNavigate,
		alert:      alert,
		pending:    pending,
		logger:     logger.WithComponent(log.ComponentNewBill),
	}
}

// HandleChangeFile validates the chosen receipt. A supported file is
// uploaded right away and the resulting draft is remembered for the submit;
// a rejected one raises exactly one alert and nothing is retained.
func (n *NewBill) HandleChangeFile(ctx context.Context, fileName string, content io.Reader) error {
	user, err := session.CurrentUser(n.session)
	if err != nil {
		return err
	}

	if !core.AcceptedReceiptFile(fileName) {
		if n.alert != nil {
			n.alert(AlertUnsupportedFile)
		}
		n.pending.Clear(user.Email)
		return core.ErrUnsupportedFileType
	}

	created, err := n.store.Create(ctx, store.Receipt{
		Email:    user.Email,
		FileName: fileName,
		Content:  content,
	})
	if err != nil {
		n.logger.ErrorContext(ctx, err.Error(),
			log.FieldEmail, user.Email,
			log.FieldFileName, fileName)
		return err
	}

	n.pending.Set(user.Email, created)
	n.logger.InfoContext(ctx, "Receipt uploaded",
		log.FieldBillID, created.BillID,
		log.FieldEmail, user.Email,
		log.FieldFileName, created.FileName)
	return nil
}

// ErrNoReceipt is returned when the form is submitted before any supported
// receipt was chosen.
var ErrNoReceipt = errors.New("no receipt selected")

// HandleSubmit turns the form values into a bill and submits it. On success
// the user lands back on the bills page; on failure the error is logged with
// its exact message and the user stays on the form.
func (n *NewBill) HandleSubmit(ctx context.Context, f Fields) error {
	user, err := session.CurrentUser(n.session)
	if err != nil {
		return err
	}

	draft, ok := n.pending.Get(user.Email)
	if !ok {
		if n.alert != nil {
			n.alert(AlertNoReceipt)
		}
		return ErrNoReceipt
	}

	cents, err := core.ParseDecimalToCents(f.Amount)
	if err != nil {
		return err
	}
	vat, err := core.ParseVAT(f.VAT)
	if err != nil {
		return err
	}

	bill := core.Bill{
		ID:         draft.BillID,
		Email:      user.Email,
		Type:       f.Type,
		Name:       f.Name,
		Amount:     core.Money{Cents: cents},
		Date:       f.Date,
		VAT:        vat,
		Pct:        core.ParsePct(f.Pct),
		Commentary: f.Commentary,
		FileURL:    draft.FileURL,
		FileName:   draft.FileName,
	}

	if _, err := n.store.Update(ctx, bill); err != nil {
		n.logger.ErrorContext(ctx, err.Error(), log.FieldBillID, draft.BillID)
		return err
	}

	n.pending.Clear(user.Email)
	if n.onNavigate != nil {
		n.onNavigate(PathBills)
	}
	return nil
}
