package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/service"
	"deal-alert-be/internal/store"
)

// simulate runs one classification pass over a fixture batch and prints the
// resulting pool, without touching the network or any persisted state. Handy
// for eyeballing ranking changes.
func main() {
	classifier := service.NewClassifierService()
	settings := entity.DefaultSettings()
	pool := store.NewAlertPool()

	bold := color.New(color.Bold)
	bold.Println("Classification dry run")
	fmt.Println()

	for _, product := range fixtures() {
		alert, ok := classifier.Classify(product, settings)
		if !ok {
			color.New(color.Faint).Printf("  skip  %-40s discount=%d%%\n", product.Title, product.DiscountRate)
			continue
		}
		pool.Insert(alert)

		categoryColor(alert.Category).Printf("  %-12s", alert.Category)
		fmt.Printf("p=%-3d %-40s %d%% %d원\n", alert.Priority, product.Title, product.DiscountRate, product.Price)
	}

	fmt.Println()
	bold.Println("Pool state")
	for _, category := range entity.Categories {
		alerts := pool.Snapshot()[category]
		categoryColor(category).Printf("  %s (%d)\n", category, len(alerts))
		for i, alert := range alerts {
			fmt.Printf("    %d. %-40s %d%% p=%d\n", i+1, alert.Product.Title, alert.Product.DiscountRate, alert.Priority)
		}
	}
}

func categoryColor(category entity.Category) *color.Color {
	switch category {
	case entity.CategorySuper:
		return color.New(color.FgRed, color.Bold)
	case entity.CategoryElectronics:
		return color.New(color.FgCyan)
	case entity.CategoryKeyword:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func fixtures() []entity.Product {
	now := time.Now()
	mk := func(id, title string, price, discount int, opts func(*entity.Product)) entity.Product {
		p := entity.Product{
			Id:           id,
			Title:        title,
			Price:        price,
			DiscountRate: discount,
			Timestamp:    now,
		}
		if opts != nil {
			opts(&p)
		}
		return p
	}

	return []entity.Product{
		mk("sim_001", "무선 블루투스 이어폰", 39000, 55, func(p *entity.Product) {
			p.IsRocket = true
			p.IsSuperDeal = true
		}),
		mk("sim_002", "4K 모니터 32인치", 299000, 35, func(p *entity.Product) {
			p.IsElectronic = true
			p.IsLowest = true
		}),
		mk("sim_003", "갤럭시 스마트폰 케이스", 9900, 42, func(p *entity.Product) {
			p.IsKeywordMatch = true
			p.KeywordInfo = &entity.KeywordInfo{Keyword: "갤럭시", Category: "Phones", Priority: "high"}
		}),
		mk("sim_004", "주방 수세미 10개입", 5900, 25, nil),
		mk("sim_005", "유선 마우스", 12000, 15, nil),
		mk("sim_006", "노트북 거치대", 18900, 49, func(p *entity.Product) {
			p.IsRocket = true
			p.PriceChanged = entity.PriceChange{Changed: true, IsDecrease: true, OldPrice: 24900, NewPrice: 18900}
		}),
	}
}
