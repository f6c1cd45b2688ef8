// Package memory is an in-process BillAppender used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"billed/internal/core"
)

type Ledger struct {
	mu    sync.Mutex
	items []core.Bill
}

func New() *Ledger {
	return &Ledger{}
}

// Append records the bill and returns a synthetic row reference.
func (l *Ledger) Append(_ context.Context, b core.Bill) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, b)
	return fmt.Sprintf("mem:%d", len(l.items)), nil
}

// Items returns a copy of the appended bills.
func (l *Ledger) Items() []core.Bill {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Bill, len(l.items))
	copy(out, l.items)
	return out
}
