package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/logger"
	"deal-alert-be/internal/repository/memory"
	"deal-alert-be/internal/repository/persistence"
	"deal-alert-be/internal/store"
)

// stubBroadcast records pushes instead of touching a hub.
type stubBroadcast struct {
	resyncAllCalls  int
	resyncSessions  []string
	newAlertBatches [][]entity.Alert
	refreshErrors   []string
	bannedProducts  []string
	statsUpdates    []int
}

func (s *stubBroadcast) ResyncAll()                         { s.resyncAllCalls++ }
func (s *stubBroadcast) ResyncSession(sessionId string)     { s.resyncSessions = append(s.resyncSessions, sessionId) }
func (s *stubBroadcast) SendNewAlerts(alerts []entity.Alert) {
	s.newAlertBatches = append(s.newAlertBatches, alerts)
}
func (s *stubBroadcast) SendRefreshError(message string) { s.refreshErrors = append(s.refreshErrors, message) }
func (s *stubBroadcast) SendProductsUpdated([]entity.Product, []entity.Alert) {}
func (s *stubBroadcast) SendProductUpdated(string, bool)                      {}
func (s *stubBroadcast) SendProductBanned(productId string) {
	s.bannedProducts = append(s.bannedProducts, productId)
}
func (s *stubBroadcast) SendSettingsUpdated(entity.Settings) {}
func (s *stubBroadcast) SendStatsUpdated(viewedCount int) {
	s.statsUpdates = append(s.statsUpdates, viewedCount)
}

type engineFixture struct {
	alerts    IAlertService
	storage   IStorageService
	broadcast *stubBroadcast
	sessions  *memory.SessionRegistry
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	snapshots, err := persistence.NewFileStore(t.TempDir())
	require.NoError(t, err)

	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	storage := NewStorageService(snapshots, log)
	storage.Load()

	broadcast := &stubBroadcast{}
	sessions := memory.NewSessionRegistry()
	alerts := NewAlertService(storage, NewClassifierService(), NewProjectorService(), broadcast, sessions, log)

	return &engineFixture{alerts: alerts, storage: storage, broadcast: broadcast, sessions: sessions}
}

func dealProduct(id string, discount int) entity.Product {
	return entity.Product{
		Id:           id,
		Title:        "상품 " + id,
		Price:        10000,
		DiscountRate: discount,
		IsRocket:     true,
		Timestamp:    time.Now(),
	}
}

func TestProcessProductsCreatesRankedAlerts(t *testing.T) {
	f := newEngineFixture(t)

	created := f.alerts.ProcessProducts([]entity.Product{
		dealProduct("p1", 55),
		dealProduct("p2", 30),
		dealProduct("p3", 10), // below minDiscountRate
	})

	assert.Len(t, created, 2)

	snapshot := f.alerts.ActiveAlerts()
	assert.Len(t, snapshot[entity.CategorySuper], 1)
	assert.Len(t, snapshot[entity.CategoryBest], 1)
	assert.Equal(t, 1, f.broadcast.resyncAllCalls)
	assert.Len(t, f.broadcast.newAlertBatches, 1)
}

func TestProcessProductsSkipsBannedAndSeen(t *testing.T) {
	f := newEngineFixture(t)

	f.storage.BanProduct("p1", "banned item")
	f.storage.MarkProductSeen("p2")

	created := f.alerts.ProcessProducts([]entity.Product{
		dealProduct("p1", 55),
		dealProduct("p2", 55),
		dealProduct("p3", 55),
	})

	require.Len(t, created, 1)
	assert.Equal(t, "p3", created[0].ProductId)
}

func TestProcessProductsSeenWithPriceDropIsEligibleAgain(t *testing.T) {
	f := newEngineFixture(t)
	f.storage.MarkProductSeen("p1")

	product := dealProduct("p1", 55)
	product.PriceChanged = entity.PriceChange{Changed: true, IsDecrease: true, OldPrice: 12000, NewPrice: 10000}

	created := f.alerts.ProcessProducts([]entity.Product{product})
	require.Len(t, created, 1)
	assert.Equal(t, "p1", created[0].ProductId)
}

func TestProcessProductsHonorsRocketOnly(t *testing.T) {
	f := newEngineFixture(t)
	enabled := true
	f.storage.UpdateSettings(dto.SettingsPatch{General: &dto.GeneralPatch{RocketOnly: &enabled}})

	slow := dealProduct("p1", 55)
	slow.IsRocket = false

	created := f.alerts.ProcessProducts([]entity.Product{slow, dealProduct("p2", 55)})
	require.Len(t, created, 1)
	assert.Equal(t, "p2", created[0].ProductId)
}

func TestProcessProductsCapsPerPass(t *testing.T) {
	f := newEngineFixture(t)

	batch := make([]entity.Product, 0, 8)
	for i := 0; i < 8; i++ {
		batch = append(batch, dealProduct(fmt.Sprintf("p%d", i), 55))
	}

	created := f.alerts.ProcessProducts(batch)
	assert.Len(t, created, PassCategoryCap)
}

func TestCloseAlertRemovesAndReplenishes(t *testing.T) {
	f := newEngineFixture(t)

	// One active alert, one strong candidate waiting in the backlog.
	created := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60)})
	require.Len(t, created, 1)
	f.storage.UpdateCurrentProducts([]entity.Product{dealProduct("p1", 60), dealProduct("p2", 55)})

	f.alerts.CloseAlert("session-a", created[0].Id, "p1")

	assert.True(t, f.storage.IsProductSeen("p1"))

	// p1 left, p2 backfilled the super slot.
	ids := f.storage.Pool().ProductIds(entity.CategorySuper)
	assert.Equal(t, []string{"p2"}, ids)

	session, ok := f.sessions.Get("session-a")
	require.True(t, ok)
	assert.True(t, session.IsClosed(created[0].Id))
	assert.True(t, session.IsUserSeen("p1"))
	assert.Equal(t, []int{1}, f.broadcast.statsUpdates)
}

func TestCloseAlertTwiceOnlyResyncsSession(t *testing.T) {
	f := newEngineFixture(t)

	created := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60)})
	require.Len(t, created, 1)

	f.alerts.CloseAlert("session-a", created[0].Id, "p1")
	resyncsAfterFirst := f.broadcast.resyncAllCalls

	f.alerts.CloseAlert("session-a", created[0].Id, "p1")

	assert.Equal(t, resyncsAfterFirst, f.broadcast.resyncAllCalls)
	assert.Equal(t, []string{"session-a"}, f.broadcast.resyncSessions)
}

func TestReplenishFillsToBound(t *testing.T) {
	f := newEngineFixture(t)

	// Fill the best bucket to its bound.
	batch := make([]entity.Product, 0, store.MaxPoolSize)
	for i := 0; i < store.MaxPoolSize; i++ {
		p := dealProduct(fmt.Sprintf("p%d", i), 30+i)
		batch = append(batch, p)
	}
	// Two passes to get past the per-pass cap.
	f.alerts.ProcessProducts(batch[:PassCategoryCap])
	f.alerts.ProcessProducts(batch[PassCategoryCap:])
	require.Equal(t, store.MaxPoolSize, f.storage.Pool().Len(entity.CategoryBest))

	// The backlog holds everything plus one fresh candidate.
	backlog := append([]entity.Product{}, batch...)
	backlog = append(backlog, dealProduct("fresh", 45))
	f.storage.UpdateCurrentProducts(backlog)

	closed := f.alerts.ActiveAlerts()[entity.CategoryBest][0]
	f.alerts.CloseAlert("session-a", closed.Id, closed.ProductId)

	assert.Equal(t, store.MaxPoolSize, f.storage.Pool().Len(entity.CategoryBest))
	assert.Contains(t, f.storage.Pool().ProductIds(entity.CategoryBest), "fresh")
}

func TestReplenishToleratesEmptyBacklog(t *testing.T) {
	f := newEngineFixture(t)

	created := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60)})
	require.Len(t, created, 1)

	f.alerts.CloseAlert("session-a", created[0].Id, "p1")
	assert.Equal(t, 0, f.storage.Pool().Len(entity.CategorySuper))
}

func TestMarkSeenRemovesGlobally(t *testing.T) {
	f := newEngineFixture(t)

	created := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60)})
	require.Len(t, created, 1)

	f.alerts.MarkSeen("p1")

	assert.True(t, f.storage.IsProductSeen("p1"))
	assert.Equal(t, 0, f.storage.Pool().Len(entity.CategorySuper))
}

func TestBanProductRemovesFromPool(t *testing.T) {
	f := newEngineFixture(t)

	created := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60)})
	require.Len(t, created, 1)

	f.alerts.BanProduct("p1", "상품 p1")

	assert.True(t, f.storage.IsProductBanned("p1"))
	assert.Equal(t, 0, f.storage.Pool().Len(entity.CategorySuper))
	assert.Equal(t, []string{"p1"}, f.broadcast.bannedProducts)

	// A banned product never re-enters on later passes.
	again := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60)})
	assert.Empty(t, again)
}

func TestInitSessionProjectsForSession(t *testing.T) {
	f := newEngineFixture(t)

	created := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60), dealProduct("p2", 55)})
	require.Len(t, created, 2)

	view := f.alerts.InitSession("session-a", []string{"p1"})

	var visible []string
	for _, alerts := range view.Alerts {
		for _, a := range alerts {
			visible = append(visible, a.ProductId)
		}
	}
	assert.Equal(t, []string{"p2"}, visible)
	assert.Equal(t, entity.DefaultSettings().General, view.Settings.General)
}

func TestCloseThenOtherSessionStillHidden(t *testing.T) {
	f := newEngineFixture(t)

	created := f.alerts.ProcessProducts([]entity.Product{dealProduct("p1", 60)})
	require.Len(t, created, 1)

	f.alerts.InitSession("session-a", nil)
	f.alerts.InitSession("session-b", nil)

	// Close in session A marks the product seen globally, so B loses it too.
	f.alerts.CloseAlert("session-a", created[0].Id, "p1")

	viewB := f.alerts.InitSession("session-b", nil)
	for _, alerts := range viewB.Alerts {
		for _, a := range alerts {
			assert.NotEqual(t, "p1", a.ProductId)
		}
	}
}

func TestResetSessionClosedRestoresView(t *testing.T) {
	f := newEngineFixture(t)

	f.alerts.InitSession("session-a", nil)
	session, ok := f.sessions.Get("session-a")
	require.True(t, ok)
	session.CloseAlert("a1")
	f.sessions.Save(session)

	f.alerts.ResetSessionClosed("session-a")

	session, _ = f.sessions.Get("session-a")
	assert.Zero(t, session.ClosedCount())
	assert.Contains(t, f.broadcast.resyncSessions, "session-a")
}

func TestTriggerTestAlertIsAdvisoryOnly(t *testing.T) {
	f := newEngineFixture(t)

	alert := f.alerts.TriggerTestAlert()

	assert.Equal(t, entity.CategorySuper, alert.Category)
	assert.NotEmpty(t, alert.Id)
	assert.Len(t, f.broadcast.newAlertBatches, 1)

	// The synthetic deal never claims a pool slot.
	for _, category := range entity.Categories {
		assert.Equal(t, 0, f.storage.Pool().Len(category))
	}
}
