package handler

import (
	"context"
	"encoding/json"

	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/pkg/logger"
	"deal-alert-be/internal/service"
	internalWS "deal-alert-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// StreamHandler owns the websocket endpoint and dispatches every client
// intent to the alert engine. One instance serves all connections.
type StreamHandler struct {
	hub       *internalWS.Hub
	alerts    service.IAlertService
	storage   service.IStorageService
	refresh   service.IRefreshService
	broadcast service.IBroadcastService
	scheduler service.ISchedulerService
	logger    logger.ILogger
}

func NewStreamHandler(
	hub *internalWS.Hub,
	alerts service.IAlertService,
	storage service.IStorageService,
	refresh service.IRefreshService,
	broadcast service.IBroadcastService,
	scheduler service.ISchedulerService,
	log logger.ILogger,
) *StreamHandler {
	return &StreamHandler{
		hub:       hub,
		alerts:    alerts,
		storage:   storage,
		refresh:   refresh,
		broadcast: broadcast,
		scheduler: scheduler,
		logger:    log,
	}
}

// RegisterRoutes mounts the upgrade endpoint. Non-websocket requests get a
// 426 so misconfigured proxies fail loudly.
func (h *StreamHandler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		internalWS.ServeWs(h.hub, conn, h)
	}))
}

// HandleIntent implements websocket.IntentHandler. Every intent except
// session-init requires a bound session; early messages are dropped with a
// warning instead of killing the connection.
func (h *StreamHandler) HandleIntent(client *internalWS.Client, intent dto.Intent) {
	if intent.Type != dto.IntentSessionInit && client.SessionId == "" {
		h.logger.Warn("Stream", "Intent before session-init dropped", map[string]interface{}{"intent": intent.Type})
		return
	}

	switch intent.Type {
	case dto.IntentSessionInit:
		h.handleSessionInit(client, intent.Data)
	case dto.IntentManualRefresh:
		if err := h.refresh.RequestRefresh(context.Background(), "manual"); err != nil {
			h.logger.Error("Stream", "Failed to queue manual refresh", map[string]interface{}{"error": err.Error()})
		}
	case dto.IntentMarkSeen:
		var req dto.MarkSeenRequest
		if !h.bind(intent.Data, &req, intent.Type) {
			return
		}
		h.alerts.MarkSeen(req.ProductId)
	case dto.IntentCloseAlert:
		var req dto.CloseAlertRequest
		if !h.bind(intent.Data, &req, intent.Type) {
			return
		}
		h.alerts.CloseAlert(client.SessionId, req.AlertId, req.ProductId)
	case dto.IntentBanProduct:
		var req dto.BanProductRequest
		if !h.bind(intent.Data, &req, intent.Type) {
			return
		}
		h.alerts.BanProduct(req.ProductId, req.Title)
	case dto.IntentResetSession:
		h.alerts.ResetSessionClosed(client.SessionId)
	case dto.IntentUpdateSettings:
		var patch dto.SettingsPatch
		if !h.bind(intent.Data, &patch, intent.Type) {
			return
		}
		updated := h.storage.UpdateSettings(patch)
		h.broadcast.SendSettingsUpdated(updated)
		h.scheduler.Nudge()
	default:
		h.logger.Warn("Stream", "Unknown intent dropped", map[string]interface{}{"intent": intent.Type})
	}
}

func (h *StreamHandler) handleSessionInit(client *internalWS.Client, data json.RawMessage) {
	var req dto.SessionInitRequest
	if !h.bind(data, &req, dto.IntentSessionInit) {
		return
	}
	if req.SessionId == "" {
		h.logger.Warn("Stream", "session-init without sessionId dropped", nil)
		return
	}

	previous := client.SessionId
	client.SessionId = req.SessionId
	view := h.alerts.InitSession(req.SessionId, req.UserSeenProductIds)

	switch {
	case previous == "":
		client.Activate()
	case previous != req.SessionId:
		h.hub.Rebind(client, previous)
	}
	client.SendEvent(dto.EventInitialView, view)

	h.logger.Info("Stream", "Session initialized", map[string]interface{}{
		"session_id": req.SessionId,
		"user_seen":  len(req.UserSeenProductIds),
	})
}

// HandleDisconnect implements websocket.IntentHandler. Session state stays
// in the registry so a reconnect under the same id resumes the closed set.
func (h *StreamHandler) HandleDisconnect(client *internalWS.Client) {
	if client.SessionId == "" {
		return
	}
	h.logger.Info("Stream", "Client disconnected", map[string]interface{}{"session_id": client.SessionId})
}

func (h *StreamHandler) bind(data json.RawMessage, out interface{}, intentType string) bool {
	if err := json.Unmarshal(data, out); err != nil {
		h.logger.Warn("Stream", "Malformed intent payload dropped", map[string]interface{}{
			"intent": intentType,
			"error":  err.Error(),
		})
		return false
	}
	return true
}
