package dto

import (
	"time"

	"deal-alert-be/internal/entity"
)

// DataExport bundles every persisted store for backup or migration.
type DataExport struct {
	ViewedProducts map[string]time.Time            `json:"viewedProducts"`
	ProductPrices  map[string]int                  `json:"productPrices"`
	BannedProducts map[string]entity.BannedProduct `json:"bannedProducts"`
	Settings       entity.Settings                 `json:"settings"`
	Products       []entity.Product                `json:"currentProducts"`
	Alerts         entity.AlertMap                 `json:"activeAlerts"`
	ExportedAt     time.Time                       `json:"exportedAt"`
}

// DataImport is the inverse of DataExport; nil sections are skipped.
type DataImport struct {
	ViewedProducts map[string]time.Time            `json:"viewedProducts,omitempty"`
	ProductPrices  map[string]int                  `json:"productPrices,omitempty"`
	BannedProducts map[string]entity.BannedProduct `json:"bannedProducts,omitempty"`
	Settings       *entity.Settings                `json:"settings,omitempty"`
	Products       []entity.Product                `json:"currentProducts,omitempty"`
	Alerts         entity.AlertMap                 `json:"activeAlerts,omitempty"`
}

type StatsResponse struct {
	entity.Stats
	Sessions entity.SessionStats `json:"sessions"`
}
