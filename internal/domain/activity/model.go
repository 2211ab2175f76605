package activity

import "time"

// Activity represents one contiguous span of focus on an (app, window) pair.
// EndTime is nil while the activity is still open.
type Activity struct {
	ID              string     `json:"id"`
	AppName         string     `json:"app_name"`
	WindowTitle     string     `json:"window_title"`
	URL             *string    `json:"url,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	CategoryID      *string    `json:"category_id,omitempty"`
	ProjectID       *string    `json:"project_id,omitempty"`
	IsIdle          bool       `json:"is_idle"`
	TagIDs          []string   `json:"tag_ids,omitempty"`
}

// Open reports whether the activity is still open.
func (a *Activity) Open() bool {
	return a.EndTime == nil
}

// EffectiveDurationSeconds returns the activity's duration for aggregation
// purposes. Open activities count elapsed time so far. Closed activities
// with a stored duration of 0 are recomputed from the timestamps, so the
// startup-recovery repair (end == start, duration 0) never propagates a
// wrong zero into later math while genuinely zero-length spans stay zero.
func (a *Activity) EffectiveDurationSeconds(now time.Time) int64 {
	if a.EndTime == nil {
		elapsed := now.UnixMilli() - a.StartTime.UnixMilli()
		if elapsed < 0 {
			return 0
		}
		return elapsed / 1000
	}
	if a.DurationSeconds > 0 {
		return a.DurationSeconds
	}
	return DurationSeconds(a.StartTime, *a.EndTime)
}

// DurationSeconds computes floor((end - start) / 1s) with millisecond inputs.
func DurationSeconds(start, end time.Time) int64 {
	ms := end.UnixMilli() - start.UnixMilli()
	if ms < 0 {
		return 0
	}
	return ms / 1000
}
