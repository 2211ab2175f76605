package aggregate

import (
	"time"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
)

// TimeBlock is a fixed-width interval of a day with the activity overlapping
// it clipped to the interval bounds. Blocks are derived per query and never
// persisted. A block nothing overlapped is empty: DominantApp == "".
type TimeBlock struct {
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	TotalSeconds        int64     `json:"total_seconds"`
	IdleSeconds         int64     `json:"idle_seconds"`
	DominantApp         string    `json:"dominant_app,omitempty"`
	DominantCategoryID  string    `json:"dominant_category_id,omitempty"`
	DominantCategory    string    `json:"dominant_category,omitempty"`
	Apps                []Slice   `json:"apps,omitempty"`
}

// TimeBlocks partitions the local calendar day containing date into
// blockMinutes-wide intervals. Each overlapping activity is clipped to the
// block bounds; the dominant app is the one with the most non-idle clipped
// time, falling back to the top app overall when the block is all idle.
func TimeBlocks(activities []activity.Activity, categories map[string]category.Category, date time.Time, blockMinutes int, now time.Time) []TimeBlock {
	if blockMinutes <= 0 {
		blockMinutes = 30
	}
	dayStart := StartOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	width := time.Duration(blockMinutes) * time.Minute

	var blocks []TimeBlock
	for bs := dayStart; bs.Before(dayEnd); bs = bs.Add(width) {
		be := bs.Add(width)
		if be.After(dayEnd) {
			be = dayEnd
		}
		blocks = append(blocks, buildBlock(activities, categories, bs, be, now))
	}
	return blocks
}

type appAccum struct {
	total    int64
	nonIdle  int64
	byCat    map[string]int64
}

func buildBlock(activities []activity.Activity, categories map[string]category.Category, bs, be, now time.Time) TimeBlock {
	block := TimeBlock{Start: bs, End: be}
	apps := map[string]*appAccum{}

	for i := range activities {
		act := &activities[i]
		clipped := clipSeconds(act, bs, be, now)
		if clipped <= 0 {
			continue
		}
		block.TotalSeconds += clipped
		if act.IsIdle {
			block.IdleSeconds += clipped
		}
		acc := apps[act.AppName]
		if acc == nil {
			acc = &appAccum{byCat: map[string]int64{}}
			apps[act.AppName] = acc
		}
		acc.total += clipped
		if !act.IsIdle {
			acc.nonIdle += clipped
		}
		if act.CategoryID != nil {
			acc.byCat[*act.CategoryID] += clipped
		}
	}

	if block.TotalSeconds == 0 {
		return block
	}

	appTotals := make(map[string]int64, len(apps))
	for name, acc := range apps {
		appTotals[name] = acc.total
	}
	block.Apps = appSlices(appTotals, block.TotalSeconds)

	block.DominantApp = dominantApp(apps)
	if acc := apps[block.DominantApp]; acc != nil {
		catID := dominantCategory(acc.byCat)
		block.DominantCategoryID = catID
		if cat, ok := categories[catID]; ok {
			block.DominantCategory = cat.Name
		}
	}
	return block
}

// clipSeconds returns the whole seconds of overlap between the activity and
// [bs, be). Open activities extend to now.
func clipSeconds(act *activity.Activity, bs, be, now time.Time) int64 {
	start := act.StartTime
	end := now
	if act.EndTime != nil {
		end = *act.EndTime
		if act.DurationSeconds == 0 && !end.After(start) {
			// Startup-recovered record: zero span, nothing to clip.
			return 0
		}
	}
	if start.Before(bs) {
		start = bs
	}
	if end.After(be) {
		end = be
	}
	if !end.After(start) {
		return 0
	}
	return (end.UnixMilli() - start.UnixMilli()) / 1000
}

// dominantApp picks the app with the highest non-idle clipped duration,
// falling back to the highest overall when every app is idle. Name order
// breaks exact ties so the result is deterministic.
func dominantApp(apps map[string]*appAccum) string {
	best, bestDur := "", int64(0)
	for name, acc := range apps {
		if acc.nonIdle > bestDur || (acc.nonIdle == bestDur && acc.nonIdle > 0 && name < best) {
			best, bestDur = name, acc.nonIdle
		}
	}
	if best != "" {
		return best
	}
	for name, acc := range apps {
		if acc.total > bestDur || (acc.total == bestDur && acc.total > 0 && (best == "" || name < best)) {
			best, bestDur = name, acc.total
		}
	}
	return best
}

func dominantCategory(byCat map[string]int64) string {
	best, bestDur := "", int64(0)
	for id, dur := range byCat {
		if dur > bestDur || (dur == bestDur && dur > 0 && (best == "" || id < best)) {
			best, bestDur = id, dur
		}
	}
	return best
}
