package service

import (
	"time"

	"github.com/google/uuid"

	"deal-alert-be/internal/entity"
)

const (
	// SuperDealThreshold is the discount rate at which a product qualifies
	// as a super deal.
	SuperDealThreshold = 49

	// BestDealThreshold is the minimum discount for the catch-all bucket.
	BestDealThreshold = 20
)

// Priority bands per category. Boosts and the discount bonus stack on top, so
// a heavily discounted best deal can still outrank a weak keyword match.
const (
	prioritySuper       = 100
	priorityElectronics = 80
	priorityKeyword     = 70
	priorityBest        = 60

	boostPriceDecrease = 15
	boostRocket        = 5
	boostLowest        = 5
)

var keywordPriorityBonus = map[string]int{
	"high":   20,
	"medium": 10,
	"low":    0,
}

// IClassifierService resolves a product into at most one alert category and
// computes its ranking priority. Every matching category is scored and the
// highest priority wins; evaluation order breaks ties.
type IClassifierService interface {
	Classify(product entity.Product, settings entity.Settings) (entity.Alert, bool)
	CategoryOf(product entity.Product) (entity.Category, bool)
}

type classifierService struct{}

func NewClassifierService() IClassifierService {
	return &classifierService{}
}

func (c *classifierService) CategoryOf(product entity.Product) (entity.Category, bool) {
	var (
		best     entity.Category
		bestPrio int
		found    bool
	)
	for _, category := range entity.Categories {
		if !matches(category, product) {
			continue
		}
		prio := priorityOf(category, product)
		if !found || prio > bestPrio {
			best, bestPrio, found = category, prio, true
		}
	}
	return best, found
}

func (c *classifierService) Classify(product entity.Product, settings entity.Settings) (entity.Alert, bool) {
	category, ok := c.CategoryOf(product)
	if !ok {
		return entity.Alert{}, false
	}

	return entity.Alert{
		Id:              uuid.New().String(),
		ProductId:       product.Id,
		Category:        category,
		Product:         product,
		Priority:        priorityOf(category, product),
		Sound:           settings.SoundFor(category),
		CreatedAt:       time.Now(),
		DisplayDuration: settings.Notifications.NotificationDuration,
	}, true
}

func matches(category entity.Category, product entity.Product) bool {
	switch category {
	case entity.CategorySuper:
		return product.DiscountRate >= SuperDealThreshold
	case entity.CategoryElectronics:
		return product.IsElectronic
	case entity.CategoryKeyword:
		return product.IsKeywordMatch
	case entity.CategoryBest:
		return product.DiscountRate >= BestDealThreshold
	}
	return false
}

func priorityOf(category entity.Category, product entity.Product) int {
	var priority int
	switch category {
	case entity.CategorySuper:
		priority = prioritySuper
	case entity.CategoryElectronics:
		priority = priorityElectronics
	case entity.CategoryKeyword:
		priority = priorityKeyword
		if product.KeywordInfo != nil {
			priority += keywordPriorityBonus[product.KeywordInfo.Priority]
		}
	case entity.CategoryBest:
		priority = priorityBest
	}

	priority += product.DiscountRate / 10

	if product.PriceChanged.Changed && product.PriceChanged.IsDecrease {
		priority += boostPriceDecrease
	}
	if product.IsRocket {
		priority += boostRocket
	}
	if product.IsLowest {
		priority += boostLowest
	}
	return priority
}
