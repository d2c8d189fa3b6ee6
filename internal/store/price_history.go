package store

import (
	"sync"

	"deal-alert-be/internal/entity"
)

// PriceHistory remembers the last observed price per product so a collection
// pass can flag drops.
type PriceHistory struct {
	mu     sync.RWMutex
	prices map[string]int
}

func NewPriceHistory() *PriceHistory {
	return &PriceHistory{prices: make(map[string]int)}
}

// Track records the current price and reports how it moved against the
// previous observation. First sightings report no change.
func (h *PriceHistory) Track(productId string, price int) entity.PriceChange {
	h.mu.Lock()
	defer h.mu.Unlock()

	old, known := h.prices[productId]
	h.prices[productId] = price

	if !known || old == price {
		return entity.PriceChange{Changed: false}
	}
	return entity.PriceChange{
		Changed:    true,
		IsDecrease: price < old,
		OldPrice:   old,
		NewPrice:   price,
	}
}

func (h *PriceHistory) PriceOf(productId string) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.prices[productId]
	return p, ok
}

func (h *PriceHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prices = make(map[string]int)
}

func (h *PriceHistory) Export() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]int, len(h.prices))
	for id, p := range h.prices {
		out[id] = p
	}
	return out
}

func (h *PriceHistory) Replace(prices map[string]int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.prices = make(map[string]int, len(prices))
	for id, p := range prices {
		h.prices[id] = p
	}
}
