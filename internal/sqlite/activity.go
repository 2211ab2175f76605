package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/repository"
)

// ActivityRepository implements activity.Repository for SQLite.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts a new activity and its tag links.
func (r *ActivityRepository) Create(ctx context.Context, act *activity.Activity) error {
	query := `
		INSERT INTO activities (
			id, app_name, window_title, url, start_ms, end_ms,
			duration_s, category_id, project_id, is_idle
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		act.ID,
		act.AppName,
		act.WindowTitle,
		act.URL,
		act.StartTime.UnixMilli(),
		endMS(act),
		act.DurationSeconds,
		act.CategoryID,
		act.ProjectID,
		act.IsIdle,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return r.replaceTags(ctx, act.ID, act.TagIDs)
}

// Get retrieves an activity by id with its tags.
func (r *ActivityRepository) Get(ctx context.Context, id string) (*activity.Activity, error) {
	query := `
		SELECT id, app_name, window_title, url, start_ms, end_ms,
		       duration_s, category_id, project_id, is_idle
		FROM activities
		WHERE id = ?
	`

	act, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, activity.ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	tags, err := r.tagsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	act.TagIDs = tags
	return act, nil
}

// Update rewrites an activity and replaces its tag links.
func (r *ActivityRepository) Update(ctx context.Context, act *activity.Activity) error {
	query := `
		UPDATE activities
		SET app_name = ?, window_title = ?, url = ?, start_ms = ?, end_ms = ?,
		    duration_s = ?, category_id = ?, project_id = ?, is_idle = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		act.AppName,
		act.WindowTitle,
		act.URL,
		act.StartTime.UnixMilli(),
		endMS(act),
		act.DurationSeconds,
		act.CategoryID,
		act.ProjectID,
		act.IsIdle,
		act.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update activity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return activity.ErrActivityNotFound
	}

	return r.replaceTags(ctx, act.ID, act.TagIDs)
}

// Delete removes an activity; tag links cascade.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return activity.ErrActivityNotFound
	}
	return nil
}

// List returns activities matching the filter, ordered by start time.
// Filter dimensions combine with AND; empty dimensions are no-ops.
func (r *ActivityRepository) List(ctx context.Context, filter activity.Filter) ([]activity.Activity, error) {
	query := `
		SELECT a.id, a.app_name, a.window_title, a.url, a.start_ms, a.end_ms,
		       a.duration_s, a.category_id, a.project_id, a.is_idle
		FROM activities a
		WHERE 1 = 1
	`
	var args []interface{}

	if filter.From != nil {
		query += " AND a.start_ms >= ?"
		args = append(args, filter.From.UnixMilli())
	}
	if filter.To != nil {
		query += " AND a.start_ms < ?"
		args = append(args, filter.To.UnixMilli())
	}
	if len(filter.CategoryIDs) > 0 {
		query += " AND a.category_id IN (" + placeholders(len(filter.CategoryIDs)) + ")"
		for _, id := range filter.CategoryIDs {
			args = append(args, id)
		}
	}
	if len(filter.Apps) > 0 {
		query += " AND a.app_name COLLATE NOCASE IN (" + placeholders(len(filter.Apps)) + ")"
		for _, app := range filter.Apps {
			args = append(args, app)
		}
	}
	if len(filter.TagIDs) > 0 {
		query += ` AND EXISTS (
			SELECT 1 FROM activity_tags at
			WHERE at.activity_id = a.id AND at.tag_id IN (` + placeholders(len(filter.TagIDs)) + `)
		)`
		for _, id := range filter.TagIDs {
			args = append(args, id)
		}
	}
	if filter.Text != "" {
		query += ` AND (a.app_name LIKE ? OR a.window_title LIKE ? OR COALESCE(a.url, '') LIKE ?)`
		like := "%" + filter.Text + "%"
		args = append(args, like, like, like)
	}
	if filter.Idle != nil {
		query += " AND a.is_idle = ?"
		args = append(args, *filter.Idle)
	}

	query += " ORDER BY a.start_ms"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return r.queryActivities(ctx, query, args...)
}

// ListOpen returns every activity with no end time.
func (r *ActivityRepository) ListOpen(ctx context.Context) ([]activity.Activity, error) {
	query := `
		SELECT a.id, a.app_name, a.window_title, a.url, a.start_ms, a.end_ms,
		       a.duration_s, a.category_id, a.project_id, a.is_idle
		FROM activities a
		WHERE a.end_ms IS NULL
		ORDER BY a.start_ms
	`
	return r.queryActivities(ctx, query)
}

func (r *ActivityRepository) queryActivities(ctx context.Context, query string, args ...interface{}) ([]activity.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *act)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, r.loadTags(ctx, activities)
}

// loadTags attaches tag ids to each activity in a single query.
func (r *ActivityRepository) loadTags(ctx context.Context, activities []activity.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	ids := make([]interface{}, len(activities))
	index := make(map[string]int, len(activities))
	for i := range activities {
		ids[i] = activities[i].ID
		index[activities[i].ID] = i
	}

	query := `
		SELECT activity_id, tag_id FROM activity_tags
		WHERE activity_id IN (` + placeholders(len(ids)) + `)
		ORDER BY activity_id, tag_id
	`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("failed to load activity tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var activityID, tagID string
		if err := rows.Scan(&activityID, &tagID); err != nil {
			return err
		}
		if i, ok := index[activityID]; ok {
			activities[i].TagIDs = append(activities[i].TagIDs, tagID)
		}
	}
	return rows.Err()
}

func (r *ActivityRepository) tagsFor(ctx context.Context, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM activity_tags WHERE activity_id = ? ORDER BY tag_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tags = append(tags, tagID)
	}
	return tags, rows.Err()
}

func (r *ActivityRepository) replaceTags(ctx context.Context, activityID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_tags WHERE activity_id = ?`, activityID); err != nil {
		return fmt.Errorf("failed to clear activity tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO activity_tags (activity_id, tag_id) VALUES (?, ?)`,
			activityID, tagID); err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to tag activity: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*activity.Activity, error) {
	var act activity.Activity
	var startMS int64
	var endMS sql.NullInt64
	err := row.Scan(
		&act.ID,
		&act.AppName,
		&act.WindowTitle,
		&act.URL,
		&startMS,
		&endMS,
		&act.DurationSeconds,
		&act.CategoryID,
		&act.ProjectID,
		&act.IsIdle,
	)
	if err != nil {
		return nil, err
	}
	act.StartTime = msToTime(startMS)
	if endMS.Valid {
		end := msToTime(endMS.Int64)
		act.EndTime = &end
	}
	return &act, nil
}

func endMS(act *activity.Activity) interface{} {
	if act.EndTime == nil {
		return nil
	}
	return act.EndTime.UnixMilli()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
