package store

import (
	"sort"
	"sync"
	"time"

	"deal-alert-be/internal/entity"
)

// BannedSet holds products the user blocked outright. Banned products are
// dropped at collection time and never eligible for replenishment.
type BannedSet struct {
	mu     sync.RWMutex
	banned map[string]entity.BannedProduct
}

func NewBannedSet() *BannedSet {
	return &BannedSet{banned: make(map[string]entity.BannedProduct)}
}

func (b *BannedSet) Ban(productId, title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banned[productId] = entity.BannedProduct{Id: productId, Title: title, AddedAt: time.Now()}
}

func (b *BannedSet) Unban(productId string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.banned[productId]; !ok {
		return false
	}
	delete(b.banned, productId)
	return true
}

func (b *BannedSet) Contains(productId string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.banned[productId]
	return ok
}

func (b *BannedSet) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.banned)
}

func (b *BannedSet) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banned = make(map[string]entity.BannedProduct)
}

// List returns the banned products newest first.
func (b *BannedSet) List() []entity.BannedProduct {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]entity.BannedProduct, 0, len(b.banned))
	for _, p := range b.banned {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out
}

// Export returns the id -> tombstone mapping for persistence.
func (b *BannedSet) Export() map[string]entity.BannedProduct {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]entity.BannedProduct, len(b.banned))
	for id, p := range b.banned {
		out[id] = p
	}
	return out
}

func (b *BannedSet) Replace(banned map[string]entity.BannedProduct) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.banned = make(map[string]entity.BannedProduct, len(banned))
	for id, p := range banned {
		b.banned[id] = p
	}
}
