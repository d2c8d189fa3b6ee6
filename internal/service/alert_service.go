package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/logger"
	"deal-alert-be/internal/repository/memory"
	"deal-alert-be/internal/store"
)

// PassCategoryCap bounds how many alerts one classification pass may add to a
// single category. The pool enforces its own size separately; this cap keeps
// one burst of deals from flooding every slot at once.
const PassCategoryCap = 5

// IAlertService is the alert lifecycle engine. Every mutating operation runs
// under one engine-wide mutex, so a classification pass, a close and a
// replenish can never interleave.
type IAlertService interface {
	ProcessProducts(products []entity.Product) []entity.Alert
	InitSession(sessionId string, userSeenProductIds []string) dto.InitialView
	CloseAlert(sessionId, alertId, productId string)
	MarkSeen(productId string)
	BanProduct(productId, title string)
	UnbanProduct(productId string) bool
	ResetSessionClosed(sessionId string)
	TriggerTestAlert() entity.Alert
	ActiveAlerts() entity.AlertMap
}

type alertService struct {
	mu sync.Mutex

	storage    IStorageService
	classifier IClassifierService
	projector  IProjectorService
	broadcast  IBroadcastService
	sessions   *memory.SessionRegistry
	logger     logger.ILogger
}

func NewAlertService(
	storage IStorageService,
	classifier IClassifierService,
	projector IProjectorService,
	broadcast IBroadcastService,
	sessions *memory.SessionRegistry,
	log logger.ILogger,
) IAlertService {
	return &alertService{
		storage:    storage,
		classifier: classifier,
		projector:  projector,
		broadcast:  broadcast,
		sessions:   sessions,
		logger:     log,
	}
}

// ProcessProducts runs one classification pass over a freshly collected
// batch. Candidates are products that pass the configured filters and are
// either new or dropped in price; each one resolves to at most one category.
// The pass ends with a persisted pool and a resync of every session.
func (a *alertService) ProcessProducts(products []entity.Product) []entity.Alert {
	a.mu.Lock()
	defer a.mu.Unlock()

	settings := a.storage.Settings()
	pooled := a.pooledProductIds()

	seenInBatch := make(map[string]struct{}, len(products))
	created := make([]entity.Alert, 0)
	perCategory := make(map[entity.Category]int)

	candidates := make([]entity.Alert, 0)
	for _, product := range products {
		if _, dup := seenInBatch[product.Id]; dup {
			continue
		}
		seenInBatch[product.Id] = struct{}{}

		if a.storage.IsProductBanned(product.Id) {
			continue
		}
		if settings.General.RocketOnly && !product.IsRocket {
			continue
		}
		if product.DiscountRate < settings.General.MinDiscountRate {
			continue
		}
		if _, active := pooled[product.Id]; active {
			continue
		}
		priceDropped := product.PriceChanged.Changed && product.PriceChanged.IsDecrease
		if a.storage.IsProductSeen(product.Id) && !priceDropped {
			continue
		}

		alert, ok := a.classifier.Classify(product, settings)
		if !ok {
			continue
		}
		candidates = append(candidates, alert)
	}

	// Strongest deals claim pool slots first.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Product.DiscountRate != candidates[j].Product.DiscountRate {
			return candidates[i].Product.DiscountRate > candidates[j].Product.DiscountRate
		}
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].Product.Timestamp.After(candidates[j].Product.Timestamp)
	})

	for _, alert := range candidates {
		if perCategory[alert.Category] >= PassCategoryCap {
			continue
		}
		perCategory[alert.Category]++
		a.storage.Pool().Insert(alert)
		created = append(created, alert)
	}

	if len(created) > 0 {
		a.storage.PersistAlerts()
		a.logger.Info("Alerts", "Classification pass complete", map[string]interface{}{
			"candidates": len(candidates),
			"created":    len(created),
		})
	}

	a.broadcast.SendNewAlerts(created)
	a.broadcast.ResyncAll()
	return created
}

// InitSession binds a session record to its client-declared seen set and
// returns the complete initial state, with alerts already projected for this
// session.
func (a *alertService) InitSession(sessionId string, userSeenProductIds []string) dto.InitialView {
	a.mu.Lock()
	defer a.mu.Unlock()

	session := a.sessions.GetOrCreate(sessionId)
	session.SetUserSeen(userSeenProductIds)
	a.sessions.Save(session)

	return dto.InitialView{
		Products: a.storage.CurrentProducts(),
		Settings: a.storage.Settings(),
		Stats:    a.storage.Stats(),
		Alerts:   a.projector.Project(a.storage.Pool().Snapshot(), session, a.storage.IsProductSeen),
	}
}

// CloseAlert is the user's dismissal path. The product is marked seen both in
// the session and globally, the alert leaves the pool, and a replenish tops
// the category back up. Closing an alert that is already gone only updates
// the session view.
func (a *alertService) CloseAlert(sessionId, alertId, productId string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	session := a.sessions.GetOrCreate(sessionId)
	session.MarkUserSeen(productId)
	session.CloseAlert(alertId)
	a.sessions.Save(session)

	a.storage.MarkProductSeen(productId)
	a.broadcast.SendStatsUpdated(a.storage.Stats().ViewedProductsCount)

	if _, removed := a.storage.Pool().RemoveById(alertId); removed {
		a.replenish()
		a.storage.PersistAlerts()
		a.broadcast.ResyncAll()
		return
	}
	a.broadcast.ResyncSession(sessionId)
}

// MarkSeen is the global removal path: the product disappears from every
// session's view, not just the caller's.
func (a *alertService) MarkSeen(productId string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.storage.MarkProductSeen(productId)
	if a.storage.Pool().RemoveByProductId(productId) {
		a.replenish()
		a.storage.PersistAlerts()
	}

	a.broadcast.SendProductUpdated(productId, true)
	a.broadcast.SendStatsUpdated(a.storage.Stats().ViewedProductsCount)
	a.broadcast.ResyncAll()
}

func (a *alertService) BanProduct(productId, title string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.storage.BanProduct(productId, title)
	if a.storage.Pool().RemoveByProductId(productId) {
		a.replenish()
		a.storage.PersistAlerts()
	}

	a.broadcast.SendProductBanned(productId)
	a.broadcast.ResyncAll()
}

func (a *alertService) UnbanProduct(productId string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.storage.UnbanProduct(productId)
}

func (a *alertService) ResetSessionClosed(sessionId string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	session := a.sessions.GetOrCreate(sessionId)
	session.ResetClosed()
	a.sessions.Save(session)
	a.broadcast.ResyncSession(sessionId)
}

// TriggerTestAlert pushes a synthetic deal through the real classification
// path so notification display and sounds can be exercised on demand. The
// alert is advisory only and never enters the pool.
func (a *alertService) TriggerTestAlert() entity.Alert {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	product := entity.Product{
		Id:           fmt.Sprintf("test_%d", now.UnixMilli()),
		Title:        "[테스트] 무선 이어폰 특가",
		Price:        29900,
		DiscountRate: 70,
		ProductUrl:   "https://example.com/test",
		IsRocket:     true,
		Timestamp:    now,
	}

	alert, _ := a.classifier.Classify(product, a.storage.Settings())
	a.broadcast.SendNewAlerts([]entity.Alert{alert})
	return alert
}

func (a *alertService) ActiveAlerts() entity.AlertMap {
	return a.storage.Pool().Snapshot()
}

// replenish tops every category back up to the pool bound from the product
// backlog, strongest discount first. A candidate must re-classify into the
// category it is filling; under-filled categories are normal when the backlog
// runs dry.
func (a *alertService) replenish() {
	settings := a.storage.Settings()
	pool := a.storage.Pool()

	excluded := a.pooledProductIds()

	backlog := a.storage.CurrentProducts()
	sort.SliceStable(backlog, func(i, j int) bool {
		return backlog[i].DiscountRate > backlog[j].DiscountRate
	})

	for _, category := range entity.Categories {
		needed := store.MaxPoolSize - pool.Len(category)
		if needed <= 0 {
			continue
		}
		for _, product := range backlog {
			if needed == 0 {
				break
			}
			if _, skip := excluded[product.Id]; skip {
				continue
			}
			if a.storage.IsProductSeen(product.Id) || a.storage.IsProductBanned(product.Id) {
				continue
			}
			if settings.General.RocketOnly && !product.IsRocket {
				continue
			}
			if product.DiscountRate < settings.General.MinDiscountRate {
				continue
			}

			alert, ok := a.classifier.Classify(product, settings)
			if !ok || alert.Category != category {
				continue
			}

			pool.Insert(alert)
			excluded[product.Id] = struct{}{}
			needed--
		}
	}
}

func (a *alertService) pooledProductIds() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, category := range entity.Categories {
		for _, id := range a.storage.Pool().ProductIds(category) {
			ids[id] = struct{}{}
		}
	}
	return ids
}
