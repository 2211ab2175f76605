package tag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Service handles tag management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new tag service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Create stores a new tag.
func (s *Service) Create(ctx context.Context, name, color string) (*Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	t := &Tag{ID: uuid.NewString(), Name: name, Color: color}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return t, nil
}

// Get retrieves a tag by id.
func (s *Service) Get(ctx context.Context, id string) (*Tag, error) {
	return s.repo.Get(ctx, id)
}

// Update renames or recolors a tag.
func (s *Service) Update(ctx context.Context, t *Tag) error {
	if t == nil || strings.TrimSpace(t.Name) == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return fmt.Errorf("updating tag: %w", err)
	}
	return nil
}

// Delete removes a tag.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all tags.
func (s *Service) List(ctx context.Context) ([]Tag, error) {
	return s.repo.List(ctx)
}
