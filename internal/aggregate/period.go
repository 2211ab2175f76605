package aggregate

import (
	"time"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
)

const (
	topCategories = 5
	topApps       = 10
)

// PeriodSummary aggregates a week or month from its per-day summaries.
type PeriodSummary struct {
	Start               time.Time      `json:"start"`
	End                 time.Time      `json:"end"`
	Days                []DailySummary `json:"days"`
	TotalSeconds        int64          `json:"total_seconds"`
	IdleSeconds         int64          `json:"idle_seconds"`
	TopCategories       []Slice        `json:"top_categories"`
	TopApps             []Slice        `json:"top_apps"`
	AverageDailySeconds int64          `json:"average_daily_seconds"`
}

// Weekly summarizes the Monday-start week containing date.
func Weekly(activities []activity.Activity, categories map[string]category.Category, date, now time.Time) PeriodSummary {
	start := StartOfWeek(date)
	return period(activities, categories, start, start.AddDate(0, 0, 7), now)
}

// Monthly summarizes the calendar month containing date.
func Monthly(activities []activity.Activity, categories map[string]category.Category, date, now time.Time) PeriodSummary {
	start := StartOfMonth(date)
	return period(activities, categories, start, start.AddDate(0, 1, 0), now)
}

// period composes daily summaries for [start, end) and aggregates their
// category/app totals. averageDailySeconds divides by the number of days
// that saw any activity, not the calendar length.
func period(activities []activity.Activity, categories map[string]category.Category, start, end, now time.Time) PeriodSummary {
	summary := PeriodSummary{Start: start, End: end}
	categoryTotals := map[string]int64{}
	appTotals := map[string]int64{}
	activeDays := int64(0)

	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		daily := Daily(activities, categories, day, now)
		summary.Days = append(summary.Days, daily)
		summary.TotalSeconds += daily.TotalSeconds
		summary.IdleSeconds += daily.IdleSeconds
		if daily.TotalSeconds > 0 {
			activeDays++
		}
		for _, s := range daily.Categories {
			categoryTotals[s.Key] += s.DurationSeconds
		}
		for _, s := range daily.Apps {
			appTotals[s.Key] += s.DurationSeconds
		}
	}

	summary.TopCategories = top(categorySlices(categoryTotals, categories, summary.TotalSeconds), topCategories)
	summary.TopApps = top(appSlices(appTotals, summary.TotalSeconds), topApps)
	if activeDays > 0 {
		summary.AverageDailySeconds = summary.TotalSeconds / activeDays
	}
	return summary
}

func top(slices []Slice, n int) []Slice {
	if len(slices) > n {
		return slices[:n]
	}
	return slices
}
