package tag

import "context"

// Repository provides persistence operations for tags.
type Repository interface {
	Create(ctx context.Context, t *Tag) error
	Get(ctx context.Context, id string) (*Tag, error)
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Tag, error)
}
