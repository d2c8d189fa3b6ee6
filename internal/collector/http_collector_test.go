package collector

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-alert-be/internal/config"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/logger"
)

type fakeContext struct {
	settings entity.Settings
	seen     map[string]bool
	banned   map[string]bool
	prices   map[string]int
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		settings: entity.DefaultSettings(),
		seen:     map[string]bool{},
		banned:   map[string]bool{},
		prices:   map[string]int{},
	}
}

func (f *fakeContext) Settings() entity.Settings            { return f.settings }
func (f *fakeContext) IsProductSeen(productId string) bool  { return f.seen[productId] }
func (f *fakeContext) IsProductBanned(productId string) bool { return f.banned[productId] }

func (f *fakeContext) TrackPrice(productId string, price int) entity.PriceChange {
	old, ok := f.prices[productId]
	f.prices[productId] = price
	if !ok || old == price {
		return entity.PriceChange{}
	}
	return entity.PriceChange{Changed: true, IsDecrease: price < old, OldPrice: old, NewPrice: price}
}

const listingFixture = `
<html><body>
<div id="category_가전/디지털">
  <div class="small_product_div">
    <a href="/product/abc123xyz/">
      <img src="https://img.example.com/tv.jpg" alt="4K 스마트 TV 55인치이라는 상품의 현재 가격은">
      <div class="another_item_name">[쿠팡] 4K  스마트 TV 55인치</div>
      <div style="color: #F56666">35%</div>
      <div style="white-space: nowrap">499,000원</div>
      <img src="/icons/web_rocket_icon.png" alt="로켓배송">
    </a>
  </div>
</div>
<div id="category_생활용품">
  <div class="small_product_div">
    <a href="/product/def456/">
      <img src="https://img.example.com/buds.jpg" alt="">
      <div class="another_item_name">무선 블루투스 이어폰 버즈</div>
      <div style="color: #F56666">55%</div>
      <div style="white-space: nowrap">39,000원</div>
      <span>최저가</span>
    </a>
  </div>
  <div class="small_product_div">
    <a href="/item?product_id=777&amp;item_id=888">
      <div class="another_item_name">주방 수세미 10개입</div>
      <div>25%</div>
      <div>5,900원</div>
    </a>
  </div>
  <div class="small_product_div">
    <a href="/product/noprice/">
      <div class="another_item_name">가격 없는 상품</div>
    </a>
  </div>
</div>
</body></html>`

func newTestCollector(t *testing.T, baseURL string, state ProductContext) *HttpCollector {
	t.Helper()
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	return NewHttpCollector(config.CollectorConfig{BaseURL: baseURL, TimeoutSeconds: 5}, state, log)
}

func TestParseExtractsProducts(t *testing.T) {
	state := newFakeContext()
	c := newTestCollector(t, "https://fallcent.com", state)

	products := c.Parse(listingFixture)
	require.Len(t, products, 3)

	byId := map[string]entity.Product{}
	for _, p := range products {
		byId[p.Id] = p
	}

	tv, ok := byId["abc123xyz"]
	require.True(t, ok)
	assert.Equal(t, "4K 스마트 TV 55인치", tv.Title)
	assert.Equal(t, 499000, tv.Price)
	assert.Equal(t, 35, tv.DiscountRate)
	assert.Equal(t, "https://fallcent.com/product/abc123xyz/", tv.ProductUrl)
	assert.Equal(t, "https://img.example.com/tv.jpg", tv.ImageUrl)
	assert.True(t, tv.IsElectronic)
	assert.True(t, tv.IsRocket)
	assert.False(t, tv.IsSuperDeal)

	buds, ok := byId["def456"]
	require.True(t, ok)
	assert.Equal(t, 55, buds.DiscountRate)
	assert.True(t, buds.IsSuperDeal)
	assert.True(t, buds.IsLowest)
	assert.False(t, buds.IsElectronic)
	assert.True(t, buds.IsKeywordMatch)
	require.NotNil(t, buds.KeywordInfo)
	assert.Equal(t, "블루투스", buds.KeywordInfo.Keyword)
	assert.Equal(t, "high", buds.KeywordInfo.Priority)

	sponge, ok := byId["777_888"]
	require.True(t, ok)
	assert.Equal(t, 5900, sponge.Price)
	assert.Equal(t, 25, sponge.DiscountRate)
	assert.False(t, sponge.IsKeywordMatch)
}

func TestParseSkipsBannedProducts(t *testing.T) {
	state := newFakeContext()
	state.banned["def456"] = true
	c := newTestCollector(t, "https://fallcent.com", state)

	products := c.Parse(listingFixture)
	for _, p := range products {
		assert.NotEqual(t, "def456", p.Id)
	}
}

func TestParseMarksSeenAndPriceChanges(t *testing.T) {
	state := newFakeContext()
	state.seen["abc123xyz"] = true
	state.prices["def456"] = 45000
	c := newTestCollector(t, "https://fallcent.com", state)

	products := c.Parse(listingFixture)
	byId := map[string]entity.Product{}
	for _, p := range products {
		byId[p.Id] = p
	}

	assert.True(t, byId["abc123xyz"].Seen)

	change := byId["def456"].PriceChanged
	assert.True(t, change.Changed)
	assert.True(t, change.IsDecrease)
	assert.Equal(t, 45000, change.OldPrice)
	assert.Equal(t, 39000, change.NewPrice)
}

func TestParseDeduplicatesRepeatedListings(t *testing.T) {
	state := newFakeContext()
	c := newTestCollector(t, "https://fallcent.com", state)

	doubled := listingFixture + listingFixture
	products := c.Parse(doubled)

	ids := map[string]int{}
	for _, p := range products {
		ids[p.Id]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "product %s listed twice", id)
	}
}

func TestCollectFetchesAndParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(listingFixture))
	}))
	defer srv.Close()

	c := newTestCollector(t, srv.URL, newFakeContext())

	products, err := c.Collect(t.Context())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestCollectSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestCollector(t, srv.URL, newFakeContext())

	_, err := c.Collect(t.Context())
	assert.Error(t, err)
}
