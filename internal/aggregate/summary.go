// Package aggregate computes reporting summaries from activity records.
// Everything here is a pure function over a slice of activities plus
// category metadata; open activities are counted as ongoing up to "now"
// and are never mutated.
package aggregate

import (
	"sort"
	"time"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
)

// Slice is one bucket of a breakdown, sorted descending by duration.
type Slice struct {
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Color           string  `json:"color,omitempty"`
	DurationSeconds int64   `json:"duration_seconds"`
	Percentage      float64 `json:"percentage"`
}

// DailySummary aggregates one local calendar day.
type DailySummary struct {
	Date          time.Time `json:"date"`
	TotalSeconds  int64     `json:"total_seconds"`
	IdleSeconds   int64     `json:"idle_seconds"`
	ActiveSeconds int64     `json:"active_seconds"`
	Categories    []Slice   `json:"categories"`
	Apps          []Slice   `json:"apps"`
}

const uncategorizedName = "Uncategorized"

// Daily summarizes the activities whose start falls within the local
// calendar day containing date. Ongoing activities contribute their
// elapsed-so-far duration.
func Daily(activities []activity.Activity, categories map[string]category.Category, date, now time.Time) DailySummary {
	dayStart := StartOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	summary := DailySummary{Date: dayStart}
	categoryTotals := map[string]int64{}
	appTotals := map[string]int64{}

	for i := range activities {
		act := &activities[i]
		if act.StartTime.Before(dayStart) || !act.StartTime.Before(dayEnd) {
			continue
		}
		dur := act.EffectiveDurationSeconds(now)
		summary.TotalSeconds += dur
		if act.IsIdle {
			summary.IdleSeconds += dur
		}
		appTotals[act.AppName] += dur
		key := ""
		if act.CategoryID != nil {
			key = *act.CategoryID
		}
		categoryTotals[key] += dur
	}

	summary.ActiveSeconds = summary.TotalSeconds - summary.IdleSeconds
	summary.Categories = categorySlices(categoryTotals, categories, summary.TotalSeconds)
	summary.Apps = appSlices(appTotals, summary.TotalSeconds)
	return summary
}

func categorySlices(totals map[string]int64, categories map[string]category.Category, total int64) []Slice {
	slices := make([]Slice, 0, len(totals))
	for id, dur := range totals {
		s := Slice{Key: id, Name: uncategorizedName, DurationSeconds: dur, Percentage: percentage(dur, total)}
		if cat, ok := categories[id]; ok {
			s.Name = cat.Name
			s.Color = cat.Color
		}
		slices = append(slices, s)
	}
	sortSlices(slices)
	return slices
}

func appSlices(totals map[string]int64, total int64) []Slice {
	slices := make([]Slice, 0, len(totals))
	for app, dur := range totals {
		slices = append(slices, Slice{
			Key:             app,
			Name:            app,
			DurationSeconds: dur,
			Percentage:      percentage(dur, total),
		})
	}
	sortSlices(slices)
	return slices
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// sortSlices orders descending by duration, then by name for a stable order
// between equal buckets.
func sortSlices(slices []Slice) {
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].DurationSeconds != slices[j].DurationSeconds {
			return slices[i].DurationSeconds > slices[j].DurationSeconds
		}
		return slices[i].Name < slices[j].Name
	})
}

// StartOfDay returns 00:00:00 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns 00:00:00 of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := StartOfDay(t).AddDate(0, 0, -(wd - 1))
	return monday
}

// StartOfMonth returns 00:00:00 of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
