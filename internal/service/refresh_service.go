package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"deal-alert-be/internal/collector"
	"deal-alert-be/internal/pkg/logger"
)

// RefreshTopic carries collection requests. A single subscriber drains it, so
// passes never overlap: a manual refresh fired during a scheduled pass simply
// queues behind it.
const RefreshTopic = "deal.refresh.request"

type refreshRequest struct {
	Source      string    `json:"source"` // "scheduler" | "manual" | "api"
	RequestedAt time.Time `json:"requestedAt"`
}

// IRefreshService is the publish side of the refresh pipeline.
type IRefreshService interface {
	RequestRefresh(ctx context.Context, source string) error
}

type refreshService struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewRefreshService(pubSub *gochannel.GoChannel, log logger.ILogger) IRefreshService {
	return &refreshService{pubSub: pubSub, logger: log}
}

func (r *refreshService) RequestRefresh(ctx context.Context, source string) error {
	payload, err := json.Marshal(refreshRequest{Source: source, RequestedAt: time.Now()})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return r.pubSub.Publish(RefreshTopic, msg)
}

// IRefreshConsumerService drains the refresh topic and runs collection
// passes one at a time.
type IRefreshConsumerService interface {
	Consume(ctx context.Context) error
}

type refreshConsumerService struct {
	pubSub    *gochannel.GoChannel
	collector collector.Collector
	alerts    IAlertService
	storage   IStorageService
	broadcast IBroadcastService
	logger    logger.ILogger
}

func NewRefreshConsumerService(
	pubSub *gochannel.GoChannel,
	col collector.Collector,
	alerts IAlertService,
	storage IStorageService,
	broadcast IBroadcastService,
	log logger.ILogger,
) IRefreshConsumerService {
	return &refreshConsumerService{
		pubSub:    pubSub,
		collector: col,
		alerts:    alerts,
		storage:   storage,
		broadcast: broadcast,
		logger:    log,
	}
}

func (cs *refreshConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, RefreshTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *refreshConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var req refreshRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		cs.logger.Error("Refresh", "Failed to unmarshal refresh request", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	started := time.Now()
	cs.logger.Info("Refresh", "Collection pass started", map[string]interface{}{"source": req.Source})

	products, err := cs.collector.Collect(ctx)
	if err != nil {
		// A failed pass leaves the previous state untouched; clients are told
		// and the next tick retries.
		cs.logger.Error("Refresh", "Collection failed", map[string]interface{}{
			"source": req.Source,
			"error":  err.Error(),
		})
		cs.broadcast.SendRefreshError(err.Error())
		msg.Ack()
		return
	}

	cs.storage.UpdateCurrentProducts(products)
	created := cs.alerts.ProcessProducts(products)
	cs.broadcast.SendProductsUpdated(products, created)

	cs.logger.Info("Refresh", "Collection pass complete", map[string]interface{}{
		"source":   req.Source,
		"products": len(products),
		"alerts":   len(created),
		"tookMs":   time.Since(started).Milliseconds(),
	})
	msg.Ack()
}
