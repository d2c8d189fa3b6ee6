package entity

import "time"

// Product is a read-only snapshot produced by a collector pass. Field names on
// the wire match what the frontend already consumes.
type Product struct {
	Id             string       `json:"id"`
	Title          string       `json:"title"`
	Price          int          `json:"price"`
	DiscountRate   int          `json:"discountRate"`
	ImageUrl       string       `json:"imageUrl"`
	ProductUrl     string       `json:"productUrl"`
	IsElectronic   bool         `json:"isElectronic"`
	IsSuperDeal    bool         `json:"isSuperDeal"`
	IsRocket       bool         `json:"isRocket"`
	IsLowest       bool         `json:"isLowest"`
	IsKeywordMatch bool         `json:"isKeywordMatch"`
	KeywordInfo    *KeywordInfo `json:"keywordInfo,omitempty"`
	Seen           bool         `json:"seen"`
	PriceChanged   PriceChange  `json:"priceChanged"`
	Timestamp      time.Time    `json:"timestamp"`
}

// KeywordInfo records which configured keyword matched the product title.
type KeywordInfo struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
	Priority string `json:"priority"` // "low" | "medium" | "high"
}

// PriceChange compares the collected price against the last known price.
type PriceChange struct {
	Changed    bool `json:"changed"`
	IsDecrease bool `json:"isDecrease,omitempty"`
	OldPrice   int  `json:"oldPrice,omitempty"`
	NewPrice   int  `json:"newPrice,omitempty"`
}

// BannedProduct is a tombstone for a product the user never wants to see again.
type BannedProduct struct {
	Id      string    `json:"id"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"addedAt"`
}
