package tag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
)

// Reapplier recomputes classification for historical activities after the
// rule catalog changes.
type Reapplier struct {
	activities activity.Repository
	classifier *category.Classifier
	logger     *slog.Logger
}

// NewReapplier creates a new reapplier.
func NewReapplier(activities activity.Repository, classifier *category.Classifier, logger *slog.Logger) *Reapplier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reapplier{activities: activities, classifier: classifier, logger: logger}
}

// ReapplyResult reports what a bulk reapplication did.
type ReapplyResult struct {
	Processed int `json:"processed_count"`
	Updated   int `json:"updated_count"`
}

// ReapplyToAllActivities reclassifies every stored activity from its
// (app, title, url) and rewrites it only when the category or the tag set
// actually changed. Running it twice without rule changes updates nothing.
func (r *Reapplier) ReapplyToAllActivities(ctx context.Context) (ReapplyResult, error) {
	if err := r.classifier.Reload(ctx); err != nil {
		return ReapplyResult{}, fmt.Errorf("reloading classifier: %w", err)
	}

	activities, err := r.activities.List(ctx, activity.Filter{})
	if err != nil {
		return ReapplyResult{}, fmt.Errorf("listing activities: %w", err)
	}

	result := ReapplyResult{}
	for i := range activities {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		act := &activities[i]
		result.Processed++

		classified := r.classifier.Classify(act.AppName, act.WindowTitle, act.URL)
		if classificationEqual(act, classified) {
			continue
		}

		act.CategoryID = &classified.CategoryID
		act.TagIDs = classified.TagIDs
		if err := r.activities.Update(ctx, act); err != nil {
			return result, fmt.Errorf("updating activity %s: %w", act.ID, err)
		}
		result.Updated++
	}

	r.logger.Info("reapplied tags to all activities",
		"processed", result.Processed, "updated", result.Updated)
	return result, nil
}

// classificationEqual compares category and tag set, ignoring tag order.
func classificationEqual(act *activity.Activity, res category.Result) bool {
	if act.CategoryID == nil || *act.CategoryID != res.CategoryID {
		return false
	}
	if len(act.TagIDs) != len(res.TagIDs) {
		return false
	}
	have := append([]string(nil), act.TagIDs...)
	want := append([]string(nil), res.TagIDs...)
	sort.Strings(have)
	sort.Strings(want)
	for i := range have {
		if have[i] != want[i] {
			return false
		}
	}
	return true
}
