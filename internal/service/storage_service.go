package service

import (
	"sync"
	"time"

	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/logger"
	"deal-alert-be/internal/repository/persistence"
	"deal-alert-be/internal/settings"
	"deal-alert-be/internal/store"
)

// IStorageService owns the durable stores (backlog, seen set, banned set,
// price history, alert pool, settings). Every mutation is flushed through the
// snapshot store; a failed flush is logged and the in-memory state stays
// authoritative until the next successful write.
type IStorageService interface {
	Load()

	UpdateCurrentProducts(products []entity.Product)
	CurrentProducts() []entity.Product

	MarkProductSeen(productId string)
	IsProductSeen(productId string) bool
	ClearViewedProducts()

	BanProduct(productId, title string)
	UnbanProduct(productId string) bool
	IsProductBanned(productId string) bool
	BannedProducts() []entity.BannedProduct
	ClearBannedProducts()

	TrackPrice(productId string, price int) entity.PriceChange

	Settings() entity.Settings
	UpdateSettings(patch dto.SettingsPatch) entity.Settings
	ResetSettings() entity.Settings
	AddKeyword(categoryId, keyword string) bool
	RemoveKeyword(categoryId, keyword string) bool
	AddKeywordCategory(category entity.KeywordCategory)
	RemoveKeywordCategory(categoryId string) bool

	Pool() *store.AlertPool
	Backlog() *store.Backlog
	PersistAlerts()

	Stats() entity.Stats
	ResetAllData()
	Export() dto.DataExport
	Import(data dto.DataImport)
}

type storageService struct {
	snapshots persistence.SnapshotStore
	logger    logger.ILogger

	pool    *store.AlertPool
	backlog *store.Backlog
	seen    *store.SeenSet
	banned  *store.BannedSet
	prices  *store.PriceHistory

	settingsMu sync.RWMutex
	settings   entity.Settings
}

func NewStorageService(snapshots persistence.SnapshotStore, log logger.ILogger) IStorageService {
	return &storageService{
		snapshots: snapshots,
		logger:    log,
		pool:      store.NewAlertPool(),
		backlog:   store.NewBacklog(),
		seen:      store.NewSeenSet(),
		banned:    store.NewBannedSet(),
		prices:    store.NewPriceHistory(),
		settings:  entity.DefaultSettings(),
	}
}

// Load restores every section from the snapshot store. Missing or unreadable
// sections load as empty; a fresh install starts with defaults.
func (s *storageService) Load() {
	if viewed, err := s.snapshots.LoadViewed(); err != nil {
		s.logger.Warn("Storage", "Failed to load viewed products", map[string]interface{}{"error": err.Error()})
	} else {
		s.seen.Replace(viewed)
	}

	if prices, err := s.snapshots.LoadPrices(); err != nil {
		s.logger.Warn("Storage", "Failed to load price history", map[string]interface{}{"error": err.Error()})
	} else {
		s.prices.Replace(prices)
	}

	if banned, err := s.snapshots.LoadBanned(); err != nil {
		s.logger.Warn("Storage", "Failed to load banned products", map[string]interface{}{"error": err.Error()})
	} else {
		s.banned.Replace(banned)
	}

	if loaded, err := s.snapshots.LoadSettings(); err != nil {
		s.logger.Warn("Storage", "Failed to load settings", map[string]interface{}{"error": err.Error()})
	} else if loaded != nil {
		s.settingsMu.Lock()
		s.settings = *loaded
		s.settingsMu.Unlock()
	}

	if products, err := s.snapshots.LoadProducts(); err != nil {
		s.logger.Warn("Storage", "Failed to load product backlog", map[string]interface{}{"error": err.Error()})
	} else {
		s.backlog.Replace(products)
	}

	if alerts, err := s.snapshots.LoadAlerts(); err != nil {
		s.logger.Warn("Storage", "Failed to load active alerts", map[string]interface{}{"error": err.Error()})
	} else {
		s.pool.Replace(alerts)
	}

	s.logger.Info("Storage", "State restored", map[string]interface{}{
		"products": s.backlog.Len(),
		"viewed":   s.seen.Len(),
		"banned":   s.banned.Len(),
	})
}

func (s *storageService) softFail(section string, err error) {
	if err != nil {
		s.logger.Error("Storage", "Snapshot write failed", map[string]interface{}{"section": section, "error": err.Error()})
	}
}

func (s *storageService) UpdateCurrentProducts(products []entity.Product) {
	s.backlog.Replace(products)
	s.softFail("products", s.snapshots.SaveProducts(products))
}

func (s *storageService) CurrentProducts() []entity.Product {
	return s.backlog.All()
}

func (s *storageService) MarkProductSeen(productId string) {
	s.seen.Mark(productId)
	s.softFail("viewed", s.snapshots.SaveViewed(s.seen.Export()))
}

func (s *storageService) IsProductSeen(productId string) bool {
	return s.seen.Contains(productId)
}

func (s *storageService) ClearViewedProducts() {
	s.seen.Clear()
	s.softFail("viewed", s.snapshots.SaveViewed(s.seen.Export()))
}

func (s *storageService) BanProduct(productId, title string) {
	s.banned.Ban(productId, title)
	s.softFail("banned", s.snapshots.SaveBanned(s.banned.Export()))
}

func (s *storageService) UnbanProduct(productId string) bool {
	removed := s.banned.Unban(productId)
	if removed {
		s.softFail("banned", s.snapshots.SaveBanned(s.banned.Export()))
	}
	return removed
}

func (s *storageService) IsProductBanned(productId string) bool {
	return s.banned.Contains(productId)
}

func (s *storageService) BannedProducts() []entity.BannedProduct {
	return s.banned.List()
}

func (s *storageService) ClearBannedProducts() {
	s.banned.Clear()
	s.softFail("banned", s.snapshots.SaveBanned(s.banned.Export()))
}

func (s *storageService) TrackPrice(productId string, price int) entity.PriceChange {
	change := s.prices.Track(productId, price)
	s.softFail("prices", s.snapshots.SavePrices(s.prices.Export()))
	return change
}

func (s *storageService) Settings() entity.Settings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

func (s *storageService) UpdateSettings(patch dto.SettingsPatch) entity.Settings {
	s.settingsMu.Lock()
	s.settings = settings.Overlay(s.settings, patch)
	updated := s.settings
	s.settingsMu.Unlock()

	s.softFail("settings", s.snapshots.SaveSettings(updated))
	return updated
}

func (s *storageService) ResetSettings() entity.Settings {
	s.settingsMu.Lock()
	s.settings = entity.DefaultSettings()
	updated := s.settings
	s.settingsMu.Unlock()

	s.softFail("settings", s.snapshots.SaveSettings(updated))
	return updated
}

func (s *storageService) AddKeyword(categoryId, keyword string) bool {
	s.settingsMu.Lock()
	added := false
	for i := range s.settings.Keywords.Categories {
		category := &s.settings.Keywords.Categories[i]
		if category.Id != categoryId {
			continue
		}
		exists := false
		for _, k := range category.Keywords {
			if k == keyword {
				exists = true
				break
			}
		}
		if !exists {
			category.Keywords = append(category.Keywords, keyword)
			added = true
		}
		break
	}
	updated := s.settings
	s.settingsMu.Unlock()

	if added {
		s.softFail("settings", s.snapshots.SaveSettings(updated))
	}
	return added
}

func (s *storageService) RemoveKeyword(categoryId, keyword string) bool {
	s.settingsMu.Lock()
	removed := false
	for i := range s.settings.Keywords.Categories {
		category := &s.settings.Keywords.Categories[i]
		if category.Id != categoryId {
			continue
		}
		kept := category.Keywords[:0]
		for _, k := range category.Keywords {
			if k == keyword {
				removed = true
				continue
			}
			kept = append(kept, k)
		}
		category.Keywords = kept
		break
	}
	updated := s.settings
	s.settingsMu.Unlock()

	if removed {
		s.softFail("settings", s.snapshots.SaveSettings(updated))
	}
	return removed
}

func (s *storageService) AddKeywordCategory(category entity.KeywordCategory) {
	s.settingsMu.Lock()
	s.settings.Keywords.Categories = append(s.settings.Keywords.Categories, category)
	updated := s.settings
	s.settingsMu.Unlock()

	s.softFail("settings", s.snapshots.SaveSettings(updated))
}

func (s *storageService) RemoveKeywordCategory(categoryId string) bool {
	s.settingsMu.Lock()
	removed := false
	kept := s.settings.Keywords.Categories[:0]
	for _, c := range s.settings.Keywords.Categories {
		if c.Id == categoryId {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.settings.Keywords.Categories = kept
	updated := s.settings
	s.settingsMu.Unlock()

	if removed {
		s.softFail("settings", s.snapshots.SaveSettings(updated))
	}
	return removed
}

func (s *storageService) Pool() *store.AlertPool {
	return s.pool
}

func (s *storageService) Backlog() *store.Backlog {
	return s.backlog
}

func (s *storageService) PersistAlerts() {
	s.softFail("alerts", s.snapshots.SaveAlerts(s.pool.Snapshot()))
}

func (s *storageService) Stats() entity.Stats {
	stats := entity.Stats{
		ViewedProductsCount:  s.seen.Len(),
		BannedProductsCount:  s.banned.Len(),
		CurrentProductsCount: s.backlog.Len(),
	}
	if last, ok := s.backlog.LastUpdate(); ok {
		stats.LastUpdate = last.Format(time.RFC3339)
	}
	return stats
}

func (s *storageService) ResetAllData() {
	s.seen.Clear()
	s.prices.Clear()
	s.banned.Clear()
	s.backlog.Clear()
	s.pool.Clear("")

	s.softFail("viewed", s.snapshots.SaveViewed(s.seen.Export()))
	s.softFail("prices", s.snapshots.SavePrices(s.prices.Export()))
	s.softFail("banned", s.snapshots.SaveBanned(s.banned.Export()))
	s.softFail("products", s.snapshots.SaveProducts(nil))
	s.softFail("alerts", s.snapshots.SaveAlerts(s.pool.Snapshot()))
}

func (s *storageService) Export() dto.DataExport {
	return dto.DataExport{
		ViewedProducts: s.seen.Export(),
		ProductPrices:  s.prices.Export(),
		BannedProducts: s.banned.Export(),
		Settings:       s.Settings(),
		Products:       s.backlog.All(),
		Alerts:         s.pool.Snapshot(),
		ExportedAt:     time.Now(),
	}
}

func (s *storageService) Import(data dto.DataImport) {
	if data.ViewedProducts != nil {
		s.seen.Replace(data.ViewedProducts)
		s.softFail("viewed", s.snapshots.SaveViewed(s.seen.Export()))
	}
	if data.ProductPrices != nil {
		s.prices.Replace(data.ProductPrices)
		s.softFail("prices", s.snapshots.SavePrices(s.prices.Export()))
	}
	if data.BannedProducts != nil {
		s.banned.Replace(data.BannedProducts)
		s.softFail("banned", s.snapshots.SaveBanned(s.banned.Export()))
	}
	if data.Settings != nil {
		s.settingsMu.Lock()
		s.settings = *data.Settings
		s.settingsMu.Unlock()
		s.softFail("settings", s.snapshots.SaveSettings(*data.Settings))
	}
	if data.Products != nil {
		s.backlog.Replace(data.Products)
		s.softFail("products", s.snapshots.SaveProducts(data.Products))
	}
	if data.Alerts != nil {
		s.pool.Replace(data.Alerts)
		s.PersistAlerts()
	}
}
