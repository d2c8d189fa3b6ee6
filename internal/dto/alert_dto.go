package dto

import (
	"encoding/json"
	"time"

	"deal-alert-be/internal/entity"
)

// Intent is the envelope for every client-to-server stream message.
type Intent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Intent type names, matching the frontend's emit calls.
const (
	IntentSessionInit    = "session-init"
	IntentManualRefresh  = "manual-refresh"
	IntentMarkSeen       = "mark-seen"
	IntentCloseAlert     = "close-alert"
	IntentBanProduct     = "ban-product"
	IntentResetSession   = "reset-session-data"
	IntentUpdateSettings = "update-settings"
)

// Server-to-client event names.
const (
	EventInitialView     = "initial-view"
	EventAlertsUpdated   = "alerts-updated"
	EventNewAlerts       = "new-alerts"
	EventRefreshError    = "refresh-error"
	EventProductsUpdated = "products-updated"
	EventProductUpdated  = "product-updated"
	EventProductBanned   = "product-banned"
	EventSettingsUpdated = "settings-updated"
	EventStatsUpdated    = "stats-updated"
)

type SessionInitRequest struct {
	SessionId          string   `json:"sessionId" validate:"required"`
	UserSeenProductIds []string `json:"userSeenProductIds"`
}

type MarkSeenRequest struct {
	ProductId string `json:"productId" validate:"required"`
}

type CloseAlertRequest struct {
	AlertId   string `json:"alertId" validate:"required"`
	ProductId string `json:"productId" validate:"required"`
	SessionId string `json:"sessionId"`
}

type BanProductRequest struct {
	ProductId string `json:"productId" validate:"required"`
	Title     string `json:"title"`
}

// InitialView is the complete state handed to a session right after init.
type InitialView struct {
	Products []entity.Product `json:"products"`
	Settings entity.Settings  `json:"settings"`
	Stats    entity.Stats     `json:"stats"`
	Alerts   entity.AlertMap  `json:"alerts"`
}

// ResyncPayload is a full replacement of the session's alert view, never a
// delta.
type ResyncPayload struct {
	Alerts    entity.AlertMap `json:"alerts"`
	Timestamp time.Time       `json:"timestamp"`
	Replace   bool            `json:"replace"`
}

// NewAlertsPayload is advisory only: it tells the client which alerts are
// fresh so it can decide on sound/notification. The following resync is the
// authoritative view.
type NewAlertsPayload struct {
	Alerts    []entity.Alert `json:"alerts"`
	Timestamp time.Time      `json:"timestamp"`
	Count     int            `json:"count"`
}

type ProductsUpdatedPayload struct {
	Products  []entity.Product `json:"products"`
	Alerts    []entity.Alert   `json:"alerts"`
	Timestamp time.Time        `json:"timestamp"`
}

type RefreshErrorPayload struct {
	Error string `json:"error"`
}

type ProductUpdatedPayload struct {
	ProductId string `json:"productId"`
	Seen      bool   `json:"seen"`
}

type StatsUpdatedPayload struct {
	ViewedProductsCount int `json:"viewedProductsCount"`
}
