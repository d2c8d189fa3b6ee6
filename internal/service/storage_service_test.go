package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/logger"
	"deal-alert-be/internal/repository/persistence"
)

func newTestStorage(t *testing.T) IStorageService {
	t.Helper()
	snapshots, err := persistence.NewFileStore(t.TempDir())
	require.NoError(t, err)

	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	storage := NewStorageService(snapshots, log)
	storage.Load()
	return storage
}

func TestStorageSurvivesRestart(t *testing.T) {
	snapshots, err := persistence.NewFileStore(t.TempDir())
	require.NoError(t, err)
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))

	first := NewStorageService(snapshots, log)
	first.Load()
	first.MarkProductSeen("p1")
	first.BanProduct("p2", "나쁜 상품")
	first.TrackPrice("p3", 15000)
	interval := 300
	first.UpdateSettings(dto.SettingsPatch{General: &dto.GeneralPatch{RefreshInterval: &interval}})

	second := NewStorageService(snapshots, log)
	second.Load()

	assert.True(t, second.IsProductSeen("p1"))
	assert.True(t, second.IsProductBanned("p2"))
	assert.Equal(t, 300, second.Settings().General.RefreshInterval)

	// Price history restored: same price again is not a change.
	change := second.TrackPrice("p3", 15000)
	assert.False(t, change.Changed)
}

func TestTrackPriceDetectsDecrease(t *testing.T) {
	storage := newTestStorage(t)

	first := storage.TrackPrice("p1", 20000)
	assert.False(t, first.Changed)

	drop := storage.TrackPrice("p1", 15000)
	assert.True(t, drop.Changed)
	assert.True(t, drop.IsDecrease)
	assert.Equal(t, 20000, drop.OldPrice)
	assert.Equal(t, 15000, drop.NewPrice)

	rise := storage.TrackPrice("p1", 18000)
	assert.True(t, rise.Changed)
	assert.False(t, rise.IsDecrease)
}

func TestKeywordOperations(t *testing.T) {
	storage := newTestStorage(t)

	assert.True(t, storage.AddKeyword("mobile", "폴드"))
	assert.False(t, storage.AddKeyword("mobile", "폴드"), "duplicate keyword")
	assert.False(t, storage.AddKeyword("no-such-category", "x"))

	assert.True(t, storage.RemoveKeyword("mobile", "폴드"))
	assert.False(t, storage.RemoveKeyword("mobile", "폴드"))

	storage.AddKeywordCategory(entity.KeywordCategory{Id: "games", Name: "Games", Enabled: true, Priority: "low", Keywords: []string{"닌텐도"}})
	assert.True(t, storage.AddKeyword("games", "플스"))
	assert.True(t, storage.RemoveKeywordCategory("games"))
	assert.False(t, storage.RemoveKeywordCategory("games"))
}

func TestResetAllDataClearsEverything(t *testing.T) {
	storage := newTestStorage(t)

	storage.MarkProductSeen("p1")
	storage.BanProduct("p2", "t")
	storage.UpdateCurrentProducts([]entity.Product{{Id: "p3", Timestamp: time.Now()}})

	storage.ResetAllData()

	stats := storage.Stats()
	assert.Zero(t, stats.ViewedProductsCount)
	assert.Zero(t, stats.BannedProductsCount)
	assert.Zero(t, stats.CurrentProductsCount)
}

func TestExportImportRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	storage.MarkProductSeen("p1")
	storage.BanProduct("p2", "차단 상품")
	storage.TrackPrice("p3", 9900)

	export := storage.Export()

	fresh := newTestStorage(t)
	fresh.Import(dto.DataImport{
		ViewedProducts: export.ViewedProducts,
		ProductPrices:  export.ProductPrices,
		BannedProducts: export.BannedProducts,
		Settings:       &export.Settings,
	})

	assert.True(t, fresh.IsProductSeen("p1"))
	assert.True(t, fresh.IsProductBanned("p2"))
	assert.False(t, fresh.TrackPrice("p3", 9900).Changed)
}

func TestImportSkipsAbsentSections(t *testing.T) {
	storage := newTestStorage(t)
	storage.MarkProductSeen("p1")

	storage.Import(dto.DataImport{})

	assert.True(t, storage.IsProductSeen("p1"))
	assert.Equal(t, entity.DefaultSettings().General, storage.Settings().General)
}
