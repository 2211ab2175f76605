package category

import "context"

// Repository provides persistence operations for categories and their rules.
// List returns categories with rules and default tags loaded, ordered by
// (position, creation time) so classification order is reproducible.
type Repository interface {
	Create(ctx context.Context, cat *Category) error
	Get(ctx context.Context, id string) (*Category, error)
	Update(ctx context.Context, cat *Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Category, error)
	NextPosition(ctx context.Context) (int, error)

	AddRule(ctx context.Context, rule *Rule) error
	UpdateRule(ctx context.Context, rule *Rule) error
	DeleteRule(ctx context.Context, id string) error

	SetDefaultTagIDs(ctx context.Context, categoryID string, tagIDs []string) error
	DefaultTagIDs(ctx context.Context, categoryID string) ([]string, error)
}
