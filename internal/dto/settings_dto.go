package dto

import "deal-alert-be/internal/entity"

// SettingsPatch is a partial settings update. Nil sections and nil fields are
// left untouched; present fields overwrite. This replaces the old dynamic
// deep-merge with a declared field-by-field overlay.
type SettingsPatch struct {
	General       *GeneralPatch       `json:"general,omitempty"`
	Notifications *NotificationsPatch `json:"notifications,omitempty"`
	Keywords      *KeywordsPatch      `json:"keywords,omitempty"`
	Advanced      *AdvancedPatch      `json:"advanced,omitempty"`
}

type GeneralPatch struct {
	RefreshInterval *int  `json:"refreshInterval,omitempty" validate:"omitempty,min=5,max=86400"`
	AutoRefresh     *bool `json:"autoRefresh,omitempty"`
	RocketOnly      *bool `json:"rocketOnly,omitempty"`
	MinDiscountRate *int  `json:"minDiscountRate,omitempty" validate:"omitempty,min=0,max=99"`
}

type NotificationsPatch struct {
	Sounds               map[entity.Category]string             `json:"sounds,omitempty"`
	SoundRepeat          map[entity.Category]entity.SoundRepeat `json:"soundRepeat,omitempty"`
	BrowserNotifications *bool                                  `json:"browserNotifications,omitempty"`
	NotificationDuration *int                                   `json:"notificationDuration,omitempty" validate:"omitempty,min=500,max=60000"`
}

// KeywordsPatch replaces the whole category list when present; individual
// keyword edits go through the dedicated keyword endpoints.
type KeywordsPatch struct {
	Categories []entity.KeywordCategory `json:"categories"`
}

type AdvancedPatch struct {
	DebugMode     *bool `json:"debugMode,omitempty"`
	ShowCrawlLogs *bool `json:"showCrawlLogs,omitempty"`
}

type AddKeywordRequest struct {
	CategoryId string `json:"categoryId" validate:"required"`
	Keyword    string `json:"keyword" validate:"required,min=1,max=50"`
}

type AddKeywordCategoryRequest struct {
	Id       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Icon     string   `json:"icon"`
	Enabled  bool     `json:"enabled"`
	Priority string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Keywords []string `json:"keywords"`
}
