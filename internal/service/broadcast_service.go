package service

import (
	"context"
	"time"

	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/logger"
	"deal-alert-be/internal/repository/memory"
	"deal-alert-be/internal/websocket"
	"deal-alert-be/pkg/events"
	"deal-alert-be/pkg/nats"
)

// IBroadcastService owns every server-to-client push. Resyncs are always a
// full per-session projection with replace semantics; the new-alerts event is
// a best-effort advisory sent right before the authoritative resync.
type IBroadcastService interface {
	ResyncAll()
	ResyncSession(sessionId string)
	SendNewAlerts(newAlerts []entity.Alert)
	SendRefreshError(message string)
	SendProductsUpdated(products []entity.Product, newAlerts []entity.Alert)
	SendProductUpdated(productId string, seen bool)
	SendProductBanned(productId string)
	SendSettingsUpdated(settings entity.Settings)
	SendStatsUpdated(viewedCount int)
}

type broadcastService struct {
	hub       *websocket.Hub
	sessions  *memory.SessionRegistry
	projector IProjectorService
	storage   IStorageService
	publisher *nats.Publisher // nil when NATS is not configured
	logger    logger.ILogger
}

func NewBroadcastService(
	hub *websocket.Hub,
	sessions *memory.SessionRegistry,
	projector IProjectorService,
	storage IStorageService,
	publisher *nats.Publisher,
	log logger.ILogger,
) IBroadcastService {
	return &broadcastService{
		hub:       hub,
		sessions:  sessions,
		projector: projector,
		storage:   storage,
		publisher: publisher,
		logger:    log,
	}
}

func (b *broadcastService) ResyncAll() {
	snapshot := b.storage.Pool().Snapshot()
	now := time.Now()
	for _, sessionId := range b.hub.SessionIds() {
		b.resyncFrom(sessionId, snapshot, now)
	}
}

func (b *broadcastService) ResyncSession(sessionId string) {
	b.resyncFrom(sessionId, b.storage.Pool().Snapshot(), time.Now())
}

func (b *broadcastService) resyncFrom(sessionId string, snapshot entity.AlertMap, at time.Time) {
	session, _ := b.sessions.Get(sessionId)
	view := b.projector.Project(snapshot, session, b.storage.IsProductSeen)
	b.hub.Send(sessionId, dto.EventAlertsUpdated, dto.ResyncPayload{
		Alerts:    view,
		Timestamp: at,
		Replace:   true,
	})
}

// SendNewAlerts filters the fresh batch per session so a client is never
// told about an alert its own view would hide.
func (b *broadcastService) SendNewAlerts(newAlerts []entity.Alert) {
	if len(newAlerts) == 0 {
		return
	}
	now := time.Now()
	for _, sessionId := range b.hub.SessionIds() {
		session, _ := b.sessions.Get(sessionId)
		visible := make([]entity.Alert, 0, len(newAlerts))
		for _, alert := range newAlerts {
			if session != nil {
				if session.IsUserSeen(alert.ProductId) {
					continue
				}
				if session.IsClosed(alert.Id) {
					continue
				}
			}
			if b.storage.IsProductSeen(alert.ProductId) {
				continue
			}
			visible = append(visible, alert)
		}
		if len(visible) == 0 {
			continue
		}
		b.hub.Send(sessionId, dto.EventNewAlerts, dto.NewAlertsPayload{
			Alerts:    visible,
			Timestamp: now,
			Count:     len(visible),
		})
	}
	b.mirror("ALERTS_CREATED", map[string]interface{}{"count": len(newAlerts)})
}

func (b *broadcastService) SendRefreshError(message string) {
	b.hub.Broadcast(dto.EventRefreshError, dto.RefreshErrorPayload{Error: message})
}

func (b *broadcastService) SendProductsUpdated(products []entity.Product, newAlerts []entity.Alert) {
	b.hub.Broadcast(dto.EventProductsUpdated, dto.ProductsUpdatedPayload{
		Products:  products,
		Alerts:    newAlerts,
		Timestamp: time.Now(),
	})
	b.mirror("PRODUCTS_UPDATED", map[string]interface{}{"count": len(products)})
}

func (b *broadcastService) SendProductUpdated(productId string, seen bool) {
	b.hub.Broadcast(dto.EventProductUpdated, dto.ProductUpdatedPayload{
		ProductId: productId,
		Seen:      seen,
	})
}

func (b *broadcastService) SendProductBanned(productId string) {
	b.hub.Broadcast(dto.EventProductBanned, map[string]string{"productId": productId})
	b.mirror("PRODUCT_BANNED", map[string]interface{}{"productId": productId})
}

func (b *broadcastService) SendSettingsUpdated(settings entity.Settings) {
	b.hub.Broadcast(dto.EventSettingsUpdated, settings)
}

func (b *broadcastService) SendStatsUpdated(viewedCount int) {
	b.hub.Broadcast(dto.EventStatsUpdated, dto.StatsUpdatedPayload{ViewedProductsCount: viewedCount})
}

// mirror forwards a lifecycle event to NATS when a publisher is wired in.
// Failures are logged and never affect the websocket path.
func (b *broadcastService) mirror(eventType string, payload map[string]interface{}) {
	if b.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := b.publisher.Publish(ctx, events.BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now(),
	})
	if err != nil {
		b.logger.Warn("Broadcast", "Failed to mirror event to NATS", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
