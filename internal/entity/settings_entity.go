package entity

// Settings is the runtime configuration the user edits from the dashboard.
// It is persisted as part of the snapshot state, not read from the process
// environment. Updates are a field-by-field overlay, never a deep merge.
type Settings struct {
	General       GeneralSettings      `json:"general"`
	Notifications NotificationSettings `json:"notifications"`
	Keywords      KeywordSettings      `json:"keywords"`
	Advanced      AdvancedSettings     `json:"advanced"`
}

type GeneralSettings struct {
	RefreshInterval int  `json:"refreshInterval"` // seconds
	AutoRefresh     bool `json:"autoRefresh"`
	RocketOnly      bool `json:"rocketOnly"`
	MinDiscountRate int  `json:"minDiscountRate"`
}

type NotificationSettings struct {
	Sounds               map[Category]string      `json:"sounds"`
	SoundRepeat          map[Category]SoundRepeat `json:"soundRepeat"`
	BrowserNotifications bool                     `json:"browserNotifications"`
	NotificationDuration int                      `json:"notificationDuration"` // milliseconds
}

type KeywordSettings struct {
	Categories []KeywordCategory `json:"categories"`
}

type KeywordCategory struct {
	Id       string   `json:"id"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Enabled  bool     `json:"enabled"`
	Priority string   `json:"priority"` // "low" | "medium" | "high"
	Keywords []string `json:"keywords"`
}

type AdvancedSettings struct {
	DebugMode     bool `json:"debugMode"`
	ShowCrawlLogs bool `json:"showCrawlLogs"`
}

// SoundFor resolves a category's sound policy, falling back to a per-category
// wav file and no repetition when the settings carry no entry.
func (s Settings) SoundFor(category Category) SoundInfo {
	info := SoundInfo{
		File:   string(category) + ".wav",
		Repeat: SoundRepeat{Enabled: false, Count: 1, Interval: 0},
	}
	if file, ok := s.Notifications.Sounds[category]; ok && file != "" {
		info.File = file
	}
	if repeat, ok := s.Notifications.SoundRepeat[category]; ok {
		info.Repeat = repeat
	}
	return info
}

// DefaultSettings mirrors the dashboard's factory configuration.
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			RefreshInterval: 60,
			AutoRefresh:     false,
			RocketOnly:      false,
			MinDiscountRate: 20,
		},
		Notifications: NotificationSettings{
			Sounds: map[Category]string{
				CategorySuper:       "super.wav",
				CategoryElectronics: "electronics.wav",
				CategoryBest:        "best.wav",
				CategoryKeyword:     "keyword.wav",
			},
			SoundRepeat: map[Category]SoundRepeat{
				CategorySuper:       {Enabled: true, Count: 3, Interval: 1000},
				CategoryElectronics: {Enabled: true, Count: 2, Interval: 800},
				CategoryKeyword:     {Enabled: true, Count: 2, Interval: 900},
				CategoryBest:        {Enabled: false, Count: 1, Interval: 0},
			},
			BrowserNotifications: true,
			NotificationDuration: 5000,
		},
		Keywords: KeywordSettings{
			Categories: []KeywordCategory{
				{Id: "wireless_audio", Name: "Wireless audio", Icon: "🎧", Enabled: true, Priority: "high",
					Keywords: []string{"블루투스", "이어폰", "버즈", "에어팟", "무선이어폰"}},
				{Id: "mobile", Name: "Phones", Icon: "📱", Enabled: true, Priority: "high",
					Keywords: []string{"갤럭시", "아이폰", "스마트폰"}},
				{Id: "computer", Name: "Computers", Icon: "💻", Enabled: true, Priority: "medium",
					Keywords: []string{"노트북", "맥북", "컴퓨터", "데스크탑"}},
				{Id: "display", Name: "Displays", Icon: "🖥️", Enabled: true, Priority: "medium",
					Keywords: []string{"모니터", "TV", "텔레비전"}},
				{Id: "peripherals", Name: "Peripherals", Icon: "⌨️", Enabled: true, Priority: "low",
					Keywords: []string{"키보드", "마우스", "헤드셋"}},
				{Id: "storage", Name: "Storage", Icon: "💾", Enabled: true, Priority: "medium",
					Keywords: []string{"SSD", "HDD", "메모리"}},
				{Id: "large_appliances", Name: "Large appliances", Icon: "🏠", Enabled: true, Priority: "low",
					Keywords: []string{"냉장고", "세탁기", "건조기"}},
				{Id: "small_appliances", Name: "Small appliances", Icon: "🍳", Enabled: true, Priority: "low",
					Keywords: []string{"전자레인지", "에어프라이어", "공기청정기"}},
			},
		},
		Advanced: AdvancedSettings{
			DebugMode:     false,
			ShowCrawlLogs: false,
		},
	}
}
