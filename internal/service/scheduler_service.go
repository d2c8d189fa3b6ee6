package service

import (
	"context"
	"time"

	"deal-alert-be/internal/pkg/logger"
)

// initialDelay gives the server a moment to finish wiring and accept the
// first websocket connections before the opening collection pass.
const initialDelay = 5 * time.Second

// minTickInterval floors the configured refresh cadence so a bad settings
// import cannot hammer the listing site.
const minTickInterval = 10 * time.Second

// ISchedulerService drives periodic refreshes. The interval is re-read from
// settings on every tick, and Nudge re-arms the timer immediately so an
// interval change applies without waiting out the old one.
type ISchedulerService interface {
	Run(ctx context.Context)
	Nudge()
}

type schedulerService struct {
	storage IStorageService
	refresh IRefreshService
	logger  logger.ILogger
	nudge   chan struct{}
}

func NewSchedulerService(storage IStorageService, refresh IRefreshService, log logger.ILogger) ISchedulerService {
	return &schedulerService{storage: storage, refresh: refresh, logger: log, nudge: make(chan struct{}, 1)}
}

// Nudge requests a timer re-arm with the current settings interval. Safe to
// call whether or not Run is active; never blocks.
func (s *schedulerService) Nudge() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

func (s *schedulerService) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(initialDelay):
	}

	if err := s.refresh.RequestRefresh(ctx, "scheduler"); err != nil {
		s.logger.Error("Scheduler", "Failed to request initial refresh", map[string]interface{}{"error": err.Error()})
	}

	timer := time.NewTimer(s.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.nudge:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.interval())
			continue
		case <-timer.C:
		}

		if s.storage.Settings().General.AutoRefresh {
			if err := s.refresh.RequestRefresh(ctx, "scheduler"); err != nil {
				s.logger.Error("Scheduler", "Failed to request refresh", map[string]interface{}{"error": err.Error()})
			}
		}
		timer.Reset(s.interval())
	}
}

func (s *schedulerService) interval() time.Duration {
	interval := time.Duration(s.storage.Settings().General.RefreshInterval) * time.Second
	if interval < minTickInterval {
		interval = minTickInterval
	}
	return interval
}
