package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles category and rule management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new category service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest describes a new category.
type CreateRequest struct {
	Name          string
	Color         string
	DefaultTagIDs []string
}

// Create stores a new category at the end of the matching order.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	position, err := s.repo.NextPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("assigning category position: %w", err)
	}
	cat := &Category{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Color:         req.Color,
		Position:      position,
		DefaultTagIDs: req.DefaultTagIDs,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return cat, nil
}

// Get retrieves a category with rules and default tags.
func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	return s.repo.Get(ctx, id)
}

// List returns all categories in matching order.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// UpdateRequest describes a category edit. Nil fields are left unchanged.
type UpdateRequest struct {
	ID            string
	Name          *string
	Color         *string
	DefaultTagIDs []string
}

// Update applies a category edit.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Category, error) {
	cat, err := s.repo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		cat.Name = *req.Name
	}
	if req.Color != nil {
		cat.Color = *req.Color
	}
	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	if req.DefaultTagIDs != nil {
		if err := s.repo.SetDefaultTagIDs(ctx, cat.ID, req.DefaultTagIDs); err != nil {
			return nil, fmt.Errorf("updating category tags: %w", err)
		}
		cat.DefaultTagIDs = req.DefaultTagIDs
	}
	return cat, nil
}

// Delete removes a category. Default categories are protected.
func (s *Service) Delete(ctx context.Context, id string) error {
	cat, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if cat.IsDefault {
		return ErrDefaultCategory
	}
	return s.repo.Delete(ctx, id)
}

// RuleRequest describes a new or edited rule.
type RuleRequest struct {
	CategoryID string
	Type       RuleType
	Pattern    string
	IsRegex    bool
	TagIDs     []string
}

// AddRule validates and stores a rule. Regex validity is recorded at edit
// time so malformed patterns can be surfaced immediately; an invalid rule
// is still stored and simply never matches.
func (s *Service) AddRule(ctx context.Context, req RuleRequest) (*Rule, error) {
	if req.Pattern == "" {
		return nil, ErrInvalidInput
	}
	switch req.Type {
	case RuleApp, RuleTitle, RuleURL:
	default:
		return nil, ErrInvalidInput
	}
	cat, err := s.repo.Get(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	rule := &Rule{
		ID:         uuid.NewString(),
		CategoryID: cat.ID,
		Type:       req.Type,
		Pattern:    req.Pattern,
		IsRegex:    req.IsRegex,
		IsValid:    ValidatePattern(req.Pattern, req.IsRegex),
		Position:   len(cat.Rules),
		TagIDs:     req.TagIDs,
	}
	if !rule.IsValid {
		s.logger.Warn("rule pattern does not compile, rule will never match",
			"category", cat.Name, "pattern", req.Pattern)
	}
	if err := s.repo.AddRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("adding rule: %w", err)
	}
	return rule, nil
}

// DeleteRule removes a rule.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	return s.repo.DeleteRule(ctx, id)
}
