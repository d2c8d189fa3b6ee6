package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"deal-alert-be/internal/entity"
)

func TestCategoryOf(t *testing.T) {
	classifier := NewClassifierService()

	tests := []struct {
		name         string
		product      entity.Product
		wantCategory entity.Category
		wantMatch    bool
	}{
		{
			name:         "discount at super threshold",
			product:      entity.Product{DiscountRate: 49},
			wantCategory: entity.CategorySuper,
			wantMatch:    true,
		},
		{
			// the badge is display-only; classification reads the rate
			name:         "super badge below threshold stays best",
			product:      entity.Product{DiscountRate: 30, IsSuperDeal: true},
			wantCategory: entity.CategoryBest,
			wantMatch:    true,
		},
		{
			name:         "electronic product",
			product:      entity.Product{DiscountRate: 30, IsElectronic: true},
			wantCategory: entity.CategoryElectronics,
			wantMatch:    true,
		},
		{
			name:         "keyword match",
			product:      entity.Product{DiscountRate: 30, IsKeywordMatch: true},
			wantCategory: entity.CategoryKeyword,
			wantMatch:    true,
		},
		{
			name:         "plain deal above best threshold",
			product:      entity.Product{DiscountRate: 20},
			wantCategory: entity.CategoryBest,
			wantMatch:    true,
		},
		{
			name:      "discount below every threshold",
			product:   entity.Product{DiscountRate: 19},
			wantMatch: false,
		},
		{
			// super outranks electronics when both predicates hold
			name:         "super electronic resolves to super",
			product:      entity.Product{DiscountRate: 60, IsElectronic: true},
			wantCategory: entity.CategorySuper,
			wantMatch:    true,
		},
		{
			// electronics at 80 outranks a bonus-free keyword at 70
			name:         "electronic keyword match resolves to electronics",
			product:      entity.Product{DiscountRate: 30, IsElectronic: true, IsKeywordMatch: true},
			wantCategory: entity.CategoryElectronics,
			wantMatch:    true,
		},
		{
			// a high priority keyword at 90 outranks electronics at 80
			name: "electronic high keyword resolves to keyword",
			product: entity.Product{
				DiscountRate:   30,
				IsElectronic:   true,
				IsKeywordMatch: true,
				KeywordInfo:    &entity.KeywordInfo{Keyword: "버즈", Priority: "high"},
			},
			wantCategory: entity.CategoryKeyword,
			wantMatch:    true,
		},
		{
			// medium keyword ties electronics at 80; the earlier category wins
			name: "electronic medium keyword tie resolves to electronics",
			product: entity.Product{
				DiscountRate:   30,
				IsElectronic:   true,
				IsKeywordMatch: true,
				KeywordInfo:    &entity.KeywordInfo{Keyword: "모니터", Priority: "medium"},
			},
			wantCategory: entity.CategoryElectronics,
			wantMatch:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, ok := classifier.CategoryOf(tt.product)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantCategory, category)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	classifier := NewClassifierService()
	settings := entity.DefaultSettings()

	tests := []struct {
		name         string
		product      entity.Product
		wantPriority int
	}{
		{
			name:         "super base plus discount bonus",
			product:      entity.Product{DiscountRate: 50},
			wantPriority: 100 + 5,
		},
		{
			name:         "electronics base",
			product:      entity.Product{DiscountRate: 30, IsElectronic: true},
			wantPriority: 80 + 3,
		},
		{
			name: "high priority keyword",
			product: entity.Product{
				DiscountRate:   30,
				IsKeywordMatch: true,
				KeywordInfo:    &entity.KeywordInfo{Keyword: "버즈", Priority: "high"},
			},
			wantPriority: 70 + 20 + 3,
		},
		{
			name: "medium priority keyword",
			product: entity.Product{
				DiscountRate:   30,
				IsKeywordMatch: true,
				KeywordInfo:    &entity.KeywordInfo{Keyword: "모니터", Priority: "medium"},
			},
			wantPriority: 70 + 10 + 3,
		},
		{
			name:         "best deal with every boost",
			product:      entity.Product{DiscountRate: 25, IsRocket: true, IsLowest: true, PriceChanged: entity.PriceChange{Changed: true, IsDecrease: true}},
			wantPriority: 60 + 2 + 15 + 5 + 5,
		},
		{
			name:         "price increase earns no boost",
			product:      entity.Product{DiscountRate: 25, PriceChanged: entity.PriceChange{Changed: true, IsDecrease: false}},
			wantPriority: 60 + 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.product.Id = "p1"
			tt.product.Timestamp = time.Now()

			alert, ok := classifier.Classify(tt.product, settings)
			assert.True(t, ok)
			assert.Equal(t, tt.wantPriority, alert.Priority)
		})
	}
}

func TestClassifyPopulatesAlert(t *testing.T) {
	classifier := NewClassifierService()
	settings := entity.DefaultSettings()

	product := entity.Product{Id: "p1", Title: "무선 이어폰", DiscountRate: 55, Price: 39000}
	alert, ok := classifier.Classify(product, settings)

	assert.True(t, ok)
	assert.NotEmpty(t, alert.Id)
	assert.Equal(t, "p1", alert.ProductId)
	assert.Equal(t, entity.CategorySuper, alert.Category)
	assert.Equal(t, product.Title, alert.Product.Title)
	assert.Equal(t, "super.wav", alert.Sound.File)
	assert.True(t, alert.Sound.Repeat.Enabled)
	assert.Equal(t, settings.Notifications.NotificationDuration, alert.DisplayDuration)
	assert.False(t, alert.CreatedAt.IsZero())
}

func TestClassifyDistinctAlertIds(t *testing.T) {
	classifier := NewClassifierService()
	settings := entity.DefaultSettings()
	product := entity.Product{Id: "p1", DiscountRate: 55}

	a, _ := classifier.Classify(product, settings)
	b, _ := classifier.Classify(product, settings)
	assert.NotEqual(t, a.Id, b.Id)
}
