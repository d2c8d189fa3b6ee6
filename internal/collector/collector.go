package collector

import (
	"context"

	"deal-alert-be/internal/entity"
)

// Collector produces one fresh batch of deal products. Implementations own
// transport and parsing; enrichment state comes from the ProductContext.
type Collector interface {
	Collect(ctx context.Context) ([]entity.Product, error)
}

// ProductContext is the narrow slice of application state a collector needs
// to enrich raw listings: keyword configuration, seen/banned lookups and
// price-change tracking.
type ProductContext interface {
	Settings() entity.Settings
	IsProductSeen(productId string) bool
	IsProductBanned(productId string) bool
	TrackPrice(productId string, price int) entity.PriceChange
}
