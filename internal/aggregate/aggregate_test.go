package aggregate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sephli/timescope/internal/aggregate"
	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
)

var testCategories = map[string]category.Category{
	"dev":   {ID: "dev", Name: "Dev", Color: "#00FF00"},
	"comms": {ID: "comms", Name: "Communication", Color: "#0000FF"},
	"other": {ID: "other", Name: "Other", IsDefault: true},
}

func closed(app, catID string, start time.Time, dur time.Duration, idle bool) activity.Activity {
	end := start.Add(dur)
	act := activity.Activity{
		AppName:         app,
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: int64(dur / time.Second),
		IsIdle:          idle,
	}
	if catID != "" {
		act.CategoryID = &catID
	}
	return act
}

func TestDaily_TotalsWithOngoingActivity(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	now := day.Add(11 * time.Hour)

	acts := []activity.Activity{
		closed("Code", "dev", day.Add(9*time.Hour), 30*time.Minute, false),
		closed("Slack", "comms", day.Add(9*time.Hour+30*time.Minute), 20*time.Minute, false),
		closed("Code", "dev", day.Add(10*time.Hour), 15*time.Minute, true),
		// Ongoing since 10:50, now 11:00: contributes 600s.
		{AppName: "Code", CategoryID: ptr("dev"), StartTime: day.Add(10*time.Hour + 50*time.Minute)},
		// Previous day: excluded.
		closed("Code", "dev", day.Add(-2*time.Hour), time.Hour, false),
	}

	summary := aggregate.Daily(acts, testCategories, day, now)

	require.Equal(t, int64(30*60+20*60+15*60+600), summary.TotalSeconds)
	require.Equal(t, int64(15*60), summary.IdleSeconds)
	require.Equal(t, summary.TotalSeconds-summary.IdleSeconds, summary.ActiveSeconds)
	require.GreaterOrEqual(t, summary.TotalSeconds, int64(4200))

	// Slices sorted descending; Code = 1800+900+600 = 3300s.
	require.Equal(t, "Code", summary.Apps[0].Name)
	require.Equal(t, int64(3300), summary.Apps[0].DurationSeconds)
	require.Equal(t, "Dev", summary.Categories[0].Name)
	require.Equal(t, "#00FF00", summary.Categories[0].Color)

	var pct float64
	for _, s := range summary.Categories {
		pct += s.Percentage
	}
	require.InDelta(t, 100.0, pct, 0.01)
}

func TestDaily_UncategorizedBucket(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	now := day.Add(12 * time.Hour)

	acts := []activity.Activity{
		closed("Notes", "", day.Add(9*time.Hour), 10*time.Minute, false),
	}
	summary := aggregate.Daily(acts, testCategories, day, now)
	require.Len(t, summary.Categories, 1)
	require.Equal(t, "Uncategorized", summary.Categories[0].Name)
	require.Equal(t, int64(600), summary.Categories[0].DurationSeconds)
}

func TestDaily_Empty(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	summary := aggregate.Daily(nil, testCategories, day, day.Add(12*time.Hour))
	require.Zero(t, summary.TotalSeconds)
	require.Empty(t, summary.Categories)
	require.Empty(t, summary.Apps)
}

func TestWeekly_AverageOverActiveDaysOnly(t *testing.T) {
	// 2026-08-24 is a Monday.
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	now := monday.AddDate(0, 0, 7)

	acts := []activity.Activity{
		closed("Code", "dev", monday.Add(9*time.Hour), time.Hour, false),
		closed("Slack", "comms", monday.AddDate(0, 0, 2).Add(9*time.Hour), 30*time.Minute, false),
	}

	summary := aggregate.Weekly(acts, testCategories, monday.AddDate(0, 0, 3), now)

	require.Equal(t, monday, summary.Start)
	require.Len(t, summary.Days, 7)
	require.Equal(t, int64(90*60), summary.TotalSeconds)
	// Two active days out of seven.
	require.Equal(t, int64(45*60), summary.AverageDailySeconds)
	require.Equal(t, "Dev", summary.TopCategories[0].Name)
}

func TestWeekly_TopListsTruncated(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	now := monday.AddDate(0, 0, 7)

	apps := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	var acts []activity.Activity
	for i, app := range apps {
		acts = append(acts, closed(app, "dev", monday.Add(time.Duration(8+i)*time.Hour/2), 10*time.Minute, false))
	}

	summary := aggregate.Weekly(acts, testCategories, monday, now)
	require.Len(t, summary.TopApps, 10)
}

func TestMonthly_CoversCalendarMonth(t *testing.T) {
	first := time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local)
	now := first.AddDate(0, 1, 0)

	acts := []activity.Activity{
		closed("Code", "dev", first.Add(10*time.Hour), time.Hour, false),
		closed("Code", "dev", first.AddDate(0, 0, 30).Add(10*time.Hour), time.Hour, false),
	}

	summary := aggregate.Monthly(acts, testCategories, first.AddDate(0, 0, 14), now)
	require.Len(t, summary.Days, 31)
	require.Equal(t, int64(2*3600), summary.TotalSeconds)
}

func TestTimeBlocks_ClipsAcrossBoundaries(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	now := day.AddDate(0, 0, 1)

	// 10:15 to 11:00 spans two 30-minute blocks: 900s then 1800s.
	acts := []activity.Activity{
		closed("Code", "dev", day.Add(10*time.Hour+15*time.Minute), 45*time.Minute, false),
	}

	blocks := aggregate.TimeBlocks(acts, testCategories, day, 30, now)
	require.Len(t, blocks, 48)

	first := blocks[20] // 10:00-10:30
	second := blocks[21] // 10:30-11:00
	require.Equal(t, day.Add(10*time.Hour), first.Start)
	require.Equal(t, int64(900), first.TotalSeconds)
	require.Equal(t, int64(1800), second.TotalSeconds)
	require.Equal(t, acts[0].DurationSeconds, first.TotalSeconds+second.TotalSeconds)

	require.Equal(t, "Code", first.DominantApp)
	require.Equal(t, "dev", first.DominantCategoryID)
	require.Equal(t, "Dev", first.DominantCategory)
}

func TestTimeBlocks_DominantAppPrefersNonIdle(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	now := day.AddDate(0, 0, 1)

	// Within 09:00-09:30: 20 idle minutes vs 8 non-idle minutes.
	acts := []activity.Activity{
		closed("Screensaver", "", day.Add(9*time.Hour), 20*time.Minute, true),
		closed("Code", "dev", day.Add(9*time.Hour+20*time.Minute), 8*time.Minute, false),
	}

	blocks := aggregate.TimeBlocks(acts, testCategories, day, 30, now)
	block := blocks[18] // 09:00-09:30
	require.Equal(t, int64(28*60), block.TotalSeconds)
	require.Equal(t, int64(20*60), block.IdleSeconds)
	require.Equal(t, "Code", block.DominantApp, "non-idle time wins over longer idle time")
}

func TestTimeBlocks_AllIdleFallsBackToTopApp(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	now := day.AddDate(0, 0, 1)

	acts := []activity.Activity{
		closed("Screensaver", "", day.Add(9*time.Hour), 25*time.Minute, true),
	}

	blocks := aggregate.TimeBlocks(acts, testCategories, day, 30, now)
	block := blocks[18]
	require.Equal(t, "Screensaver", block.DominantApp)
	require.Equal(t, block.TotalSeconds, block.IdleSeconds)
}

func TestTimeBlocks_EmptyBlock(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	blocks := aggregate.TimeBlocks(nil, testCategories, day, 30, day.AddDate(0, 0, 1))

	require.Len(t, blocks, 48)
	for _, b := range blocks {
		require.Zero(t, b.TotalSeconds)
		require.Empty(t, b.DominantApp)
		require.Empty(t, b.Apps)
	}
}

func TestTimeBlocks_RecoveredZeroSpanIgnored(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	start := day.Add(9 * time.Hour)

	// Startup-recovered record: end == start, duration 0.
	acts := []activity.Activity{
		{AppName: "Code", StartTime: start, EndTime: &start, DurationSeconds: 0},
	}

	blocks := aggregate.TimeBlocks(acts, testCategories, day, 30, day.AddDate(0, 0, 1))
	require.Zero(t, blocks[18].TotalSeconds)
}

func TestTimeBlocks_OngoingClippedToNow(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	now := day.Add(9*time.Hour + 10*time.Minute)

	acts := []activity.Activity{
		{AppName: "Code", CategoryID: ptr("dev"), StartTime: day.Add(9 * time.Hour)},
	}

	blocks := aggregate.TimeBlocks(acts, testCategories, day, 30, now)
	require.Equal(t, int64(600), blocks[18].TotalSeconds)
}

func TestStartOfWeek_Monday(t *testing.T) {
	// 2026-08-27 is a Thursday; 2026-08-30 a Sunday.
	thursday := time.Date(2026, 8, 27, 15, 30, 0, 0, time.Local)
	sunday := time.Date(2026, 8, 30, 23, 59, 0, 0, time.Local)
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)

	require.Equal(t, monday, aggregate.StartOfWeek(thursday))
	require.Equal(t, monday, aggregate.StartOfWeek(sunday))
	require.Equal(t, monday, aggregate.StartOfWeek(monday))
}

func ptr(s string) *string { return &s }
