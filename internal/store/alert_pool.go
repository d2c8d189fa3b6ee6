package store

import (
	"sort"
	"sync"

	"deal-alert-be/internal/entity"
)

// MaxPoolSize bounds every category's active alert list.
const MaxPoolSize = 10

// AlertPool is the global, category-keyed set of active alerts. Sequences are
// kept in rank order: discount rate descending, then price ascending. A
// product id appears in at most one category at any time.
type AlertPool struct {
	mu         sync.RWMutex
	byCategory entity.AlertMap
}

func NewAlertPool() *AlertPool {
	return &AlertPool{byCategory: entity.EmptyAlertMap()}
}

// Insert places the alert into its category, superseding any alert for the
// same product anywhere in the pool, then re-ranks and truncates the category
// to MaxPoolSize. Alerts pushed past the bound are dropped silently.
func (p *AlertPool) Insert(alert entity.Alert) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Same-product alerts leave every category, not just the target one,
	// so a reclassified product never shows in two places at once.
	p.removeProductLocked(alert.ProductId)

	seq := append(p.byCategory[alert.Category], alert)
	sort.SliceStable(seq, func(i, j int) bool {
		if seq[i].Product.DiscountRate != seq[j].Product.DiscountRate {
			return seq[i].Product.DiscountRate > seq[j].Product.DiscountRate
		}
		return seq[i].Product.Price < seq[j].Product.Price
	})
	if len(seq) > MaxPoolSize {
		seq = seq[:MaxPoolSize]
	}
	p.byCategory[alert.Category] = seq
}

// RemoveById locates the alert by id and removes every alert sharing its
// product id across all categories. Closing an alert is a same-product close,
// not a same-id close. Unknown ids are a no-op.
func (p *AlertPool) RemoveById(alertId string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	productId := ""
	for _, seq := range p.byCategory {
		for _, a := range seq {
			if a.Id == alertId {
				productId = a.ProductId
				break
			}
		}
	}
	if productId == "" {
		return "", false
	}
	p.removeProductLocked(productId)
	return productId, true
}

// RemoveByProductId removes the product's alerts from every category.
// Returns whether anything was removed.
func (p *AlertPool) RemoveByProductId(productId string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeProductLocked(productId)
}

func (p *AlertPool) removeProductLocked(productId string) bool {
	removed := false
	for category, seq := range p.byCategory {
		kept := seq[:0]
		for _, a := range seq {
			if a.ProductId == productId {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		p.byCategory[category] = kept
	}
	return removed
}

// Snapshot returns a copy of the category map; callers may not mutate pool
// state through it.
func (p *AlertPool) Snapshot() entity.AlertMap {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(entity.AlertMap, len(p.byCategory))
	for category, seq := range p.byCategory {
		cp := make([]entity.Alert, len(seq))
		copy(cp, seq)
		out[category] = cp
	}
	return out
}

// Len reports the current size of one category's sequence.
func (p *AlertPool) Len(category entity.Category) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byCategory[category])
}

// ProductIds lists the product ids currently occupying one category.
func (p *AlertPool) ProductIds(category entity.Category) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.byCategory[category]))
	for _, a := range p.byCategory[category] {
		ids = append(ids, a.ProductId)
	}
	return ids
}

// Replace swaps the whole pool content, used when restoring a snapshot.
func (p *AlertPool) Replace(alerts entity.AlertMap) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.byCategory = entity.EmptyAlertMap()
	for category, seq := range alerts {
		cp := make([]entity.Alert, len(seq))
		copy(cp, seq)
		if len(cp) > MaxPoolSize {
			cp = cp[:MaxPoolSize]
		}
		p.byCategory[category] = cp
	}
}

// Clear empties one category, or the whole pool when category is "".
func (p *AlertPool) Clear(category entity.Category) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if category == "" {
		p.byCategory = entity.EmptyAlertMap()
		return
	}
	p.byCategory[category] = []entity.Alert{}
}
