package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sephli/timescope/internal/domain/project"
)

// ProjectRepository implements project.Repository for SQLite.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, name, color, description, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		proj.ID, proj.Name, proj.Color, proj.Description, proj.IsActive,
		proj.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Get retrieves a project by id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, color, description, is_active, created_at
		FROM projects WHERE id = ?
	`
	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, project.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// Update rewrites a project.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects SET name = ?, color = ?, description = ?, is_active = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		proj.Name, proj.Color, proj.Description, proj.IsActive, proj.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// Delete removes a project; activities keep their history with project_id
// cleared.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// List returns projects ordered by name, optionally only active ones.
func (r *ProjectRepository) List(ctx context.Context, activeOnly bool) ([]project.Project, error) {
	query := `
		SELECT id, name, color, description, is_active, created_at
		FROM projects
	`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *proj)
	}
	return projects, rows.Err()
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var createdMS int64
	err := row.Scan(&proj.ID, &proj.Name, &proj.Color, &proj.Description,
		&proj.IsActive, &createdMS)
	if err != nil {
		return nil, err
	}
	proj.CreatedAt = msToTime(createdMS)
	return &proj, nil
}
