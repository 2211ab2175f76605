package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles project management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Create stores a new active project.
func (s *Service) Create(ctx context.Context, name, color, description string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	proj := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Color:       color,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// Get retrieves a project by id.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.Get(ctx, id)
}

// Update applies a project edit.
func (s *Service) Update(ctx context.Context, proj *Project) error {
	if proj == nil || strings.TrimSpace(proj.Name) == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Update(ctx, proj); err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

// SetActive toggles whether a project is offered for new activities.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	proj.IsActive = active
	return s.repo.Update(ctx, proj)
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns projects, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Project, error) {
	return s.repo.List(ctx, activeOnly)
}
