package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sephli/timescope/internal/domain/tag"
)

// TagRepository implements tag.Repository for SQLite.
type TagRepository struct {
	db *DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag. Tag names are unique.
func (r *TagRepository) Create(ctx context.Context, t *tag.Tag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (id, name, color) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.Color)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tag %q already exists: %w", t.Name, tag.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// Get retrieves a tag by id.
func (r *TagRepository) Get(ctx context.Context, id string) (*tag.Tag, error) {
	var t tag.Tag
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Color)
	if err == sql.ErrNoRows {
		return nil, tag.ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

// Update rewrites a tag.
func (r *TagRepository) Update(ctx context.Context, t *tag.Tag) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ? WHERE id = ?`, t.Name, t.Color, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return tag.ErrTagNotFound
	}
	return nil
}

// Delete removes a tag; activity, category, and rule links cascade.
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return tag.ErrTagNotFound
	}
	return nil
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]tag.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []tag.Tag
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
