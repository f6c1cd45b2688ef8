// Package sheets defines the outbound port for the accounting export.
package sheets

import (
	"context"

	"billed/internal/core"
)

// BillAppender hands a submitted bill to the accounting ledger and returns a
// reference to the appended row.
type BillAppender interface {
	Append(ctx context.Context, b core.Bill) (rowRef string, err error)
}
