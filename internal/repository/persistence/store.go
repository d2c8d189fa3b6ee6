// Package persistence stores the engine's opaque state snapshots. The core
// only requires whole-section read/write surviving restarts; a missing or
// empty snapshot on first start loads as all-empty.
package persistence

import (
	"time"

	"deal-alert-be/internal/entity"
)

// SnapshotStore reads and writes the five persisted sections. Writes are
// soft-fail at the call site: a failed write is logged and in-memory state
// stays authoritative.
type SnapshotStore interface {
	LoadViewed() (map[string]time.Time, error)
	SaveViewed(viewed map[string]time.Time) error

	LoadPrices() (map[string]int, error)
	SavePrices(prices map[string]int) error

	LoadBanned() (map[string]entity.BannedProduct, error)
	SaveBanned(banned map[string]entity.BannedProduct) error

	// LoadSettings returns nil when no settings were ever saved.
	LoadSettings() (*entity.Settings, error)
	SaveSettings(settings entity.Settings) error

	LoadProducts() ([]entity.Product, error)
	SaveProducts(products []entity.Product) error

	LoadAlerts() (entity.AlertMap, error)
	SaveAlerts(alerts entity.AlertMap) error
}

// Section names shared by implementations (file names / redis keys).
const (
	sectionViewed   = "viewed-products"
	sectionPrices   = "product-prices"
	sectionBanned   = "banned-products"
	sectionSettings = "settings"
	sectionProducts = "current-products"
	sectionAlerts   = "active-alerts"
)
