package containers

import (
	"sync"

	"billed/internal/store"
)

// PendingReceipts remembers, per employee, the draft opened by the last
// accepted receipt upload. The new bill form spans two requests (file upload,
// then submit), so this state has to outlive a single controller.
type PendingReceipts struct {
	mu      sync.Mutex
	byEmail map[string]store.Created
}

func NewPendingReceipts() *PendingReceipts {
	return &PendingReceipts{byEmail: make(map[string]store.Created)}
}

// Set records the draft opened for the given employee, replacing any
// previous selection.
func (p *PendingReceipts) Set(email string, c store.Created) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byEmail[email] = c
}

// Get returns the employee's pending draft, if any.
func (p *PendingReceipts) Get(email string) (store.Created, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.byEmail[email]
	return c, ok
}

// Clear forgets the employee's pending draft. Called after a rejected file
// so the bad selection is not retained, and after a successful submit.
func (p *PendingReceipts) Clear(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byEmail, email)
}
