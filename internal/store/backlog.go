package store

import (
	"sync"
	"time"

	"deal-alert-be/internal/entity"
)

// Backlog keeps the latest collected product list. Replenishment draws its
// candidates from here; each classification pass replaces it wholesale.
type Backlog struct {
	mu       sync.RWMutex
	products []entity.Product
}

func NewBacklog() *Backlog {
	return &Backlog{}
}

func (b *Backlog) Replace(products []entity.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = make([]entity.Product, len(products))
	copy(b.products, products)
}

// All returns a copy of the current backlog.
func (b *Backlog) All() []entity.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.Product, len(b.products))
	copy(out, b.products)
	return out
}

func (b *Backlog) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.products)
}

func (b *Backlog) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = nil
}

// LastUpdate reports the newest collection timestamp in the backlog.
func (b *Backlog) LastUpdate() (time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var last time.Time
	for _, p := range b.products {
		if p.Timestamp.After(last) {
			last = p.Timestamp
		}
	}
	return last, !last.IsZero()
}
