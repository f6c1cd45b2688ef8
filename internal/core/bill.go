package core

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// DefaultPct is the fallback VAT percentage applied when the pct field is
// blank or non-numeric. Legacy behavior carried over from the original form.
const DefaultPct = 20

type (
	Status string

	// Bill is an employee expense claim. Date holds the ISO-8601 calendar
	// date string as entered; display formatting happens at render time.
	Bill struct {
		ID         string
		Email      string
		Type       string // expense category
		Name       string // free-text label
		Amount     Money
		Date       string
		VAT        int64
		Pct        int64
		Commentary string
		FileURL    string
		FileName   string
		Status     Status
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidPct          = errors.New("invalid percentage")
	ErrEmptyEmail          = errors.New("empty email")
	ErrOrphanReceipt       = errors.New("file url and file name must be set together")
	ErrUnsupportedFileType = errors.New("unsupported receipt file type")
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return nil
	}
	return ErrInvalidStatus
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Email) == "" {
		return ErrEmptyEmail
	}
	if _, err := ParseISODate(b.Date); err != nil {
		return ErrInvalidDate
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if b.VAT < 0 || b.Pct < 0 {
		return ErrInvalidPct
	}
	if (b.FileURL == "") != (b.FileName == "") {
		return ErrOrphanReceipt
	}
	return b.Status.Validate()
}

// acceptedReceiptExts are the receipt attachment types the form accepts.
var acceptedReceiptExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AcceptedReceiptFile reports whether the file name carries an accepted
// receipt extension. The check is case-insensitive.
func AcceptedReceiptFile(fileName string) bool {
	return acceptedReceiptExts[strings.ToLower(filepath.Ext(fileName))]
}
