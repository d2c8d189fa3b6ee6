package entity

import "time"

// Category is the single alert bucket a product resolves to. A product lives
// in at most one category at any instant.
type Category string

const (
	CategorySuper       Category = "super"
	CategoryElectronics Category = "electronics"
	CategoryKeyword     Category = "keyword"
	CategoryBest        Category = "best"
)

// Categories lists every bucket in predicate evaluation order. The order
// doubles as the tie-break when priorities collide.
var Categories = []Category{CategorySuper, CategoryElectronics, CategoryKeyword, CategoryBest}

// Alert pairs a classified product snapshot with its category, priority and
// sound policy. The embedded product is frozen at creation time and never
// re-fetched.
type Alert struct {
	Id              string    `json:"id"`
	ProductId       string    `json:"productId"`
	Category        Category  `json:"type"`
	Product         Product   `json:"product"`
	Priority        int       `json:"priority"`
	Sound           SoundInfo `json:"sound"`
	CreatedAt       time.Time `json:"timestamp"`
	DisplayDuration int       `json:"duration"` // milliseconds
}

// SoundInfo is the category's configured playback policy, resolved from
// settings at alert creation time.
type SoundInfo struct {
	File   string      `json:"file"`
	Repeat SoundRepeat `json:"repeat"`
}

type SoundRepeat struct {
	Enabled  bool `json:"enabled"`
	Count    int  `json:"count"`
	Interval int  `json:"interval"` // milliseconds between repeats
}

// AlertMap is the category-keyed view of active alerts sent to clients.
type AlertMap map[Category][]Alert

// EmptyAlertMap returns a map with every category present as an empty slice,
// so clients always receive all four keys.
func EmptyAlertMap() AlertMap {
	m := make(AlertMap, len(Categories))
	for _, c := range Categories {
		m[c] = []Alert{}
	}
	return m
}
