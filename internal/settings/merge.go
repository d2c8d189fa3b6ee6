// Package settings applies partial settings updates as an explicit
// field-by-field overlay onto the current value.
package settings

import (
	"deal-alert-be/internal/dto"
	"deal-alert-be/internal/entity"
)

// Overlay returns a copy of current with every present patch field applied.
// Absent (nil) fields never touch the current value, so a client can send
// just the section it changed.
func Overlay(current entity.Settings, patch dto.SettingsPatch) entity.Settings {
	out := current

	if g := patch.General; g != nil {
		if g.RefreshInterval != nil {
			out.General.RefreshInterval = *g.RefreshInterval
		}
		if g.AutoRefresh != nil {
			out.General.AutoRefresh = *g.AutoRefresh
		}
		if g.RocketOnly != nil {
			out.General.RocketOnly = *g.RocketOnly
		}
		if g.MinDiscountRate != nil {
			out.General.MinDiscountRate = *g.MinDiscountRate
		}
	}

	if n := patch.Notifications; n != nil {
		if n.Sounds != nil {
			out.Notifications.Sounds = cloneMap(n.Sounds)
		}
		if n.SoundRepeat != nil {
			out.Notifications.SoundRepeat = cloneMap(n.SoundRepeat)
		}
		if n.BrowserNotifications != nil {
			out.Notifications.BrowserNotifications = *n.BrowserNotifications
		}
		if n.NotificationDuration != nil {
			out.Notifications.NotificationDuration = *n.NotificationDuration
		}
	}

	if k := patch.Keywords; k != nil {
		categories := make([]entity.KeywordCategory, len(k.Categories))
		copy(categories, k.Categories)
		out.Keywords.Categories = categories
	}

	if a := patch.Advanced; a != nil {
		if a.DebugMode != nil {
			out.Advanced.DebugMode = *a.DebugMode
		}
		if a.ShowCrawlLogs != nil {
			out.Advanced.ShowCrawlLogs = *a.ShowCrawlLogs
		}
	}

	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
