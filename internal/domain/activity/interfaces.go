package activity

import "context"

// Repository provides persistence operations for activities.
type Repository interface {
	Create(ctx context.Context, act *Activity) error
	Get(ctx context.Context, id string) (*Activity, error)
	Update(ctx context.Context, act *Activity) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]Activity, error)
	ListOpen(ctx context.Context) ([]Activity, error)
}

// CategoryTags resolves the default tag ids of a category. Implemented by
// the category repository; used when an activity is reassigned so the
// target category's default tags merge into the activity's tag set.
type CategoryTags interface {
	DefaultTagIDs(ctx context.Context, categoryID string) ([]string, error)
}
