package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles activity lifecycle operations. It owns every mutation of
// activity records; the tracker only ever holds the id of the open activity.
type Service struct {
	repo       Repository
	categories CategoryTags
	logger     *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, categories CategoryTags, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, categories: categories, logger: logger}
}

// StartRequest describes the opening of a tracked activity.
type StartRequest struct {
	AppName     string
	WindowTitle string
	URL         *string
	Start       time.Time
	CategoryID  *string
	TagIDs      []string
	IsIdle      bool
}

// Start creates a new open activity.
func (s *Service) Start(ctx context.Context, req StartRequest) (*Activity, error) {
	if strings.TrimSpace(req.AppName) == "" {
		return nil, ErrInvalidInput
	}
	act := &Activity{
		ID:          uuid.NewString(),
		AppName:     req.AppName,
		WindowTitle: req.WindowTitle,
		URL:         req.URL,
		StartTime:   req.Start,
		CategoryID:  req.CategoryID,
		IsIdle:      req.IsIdle,
		TagIDs:      dedupTagIDs(req.TagIDs),
	}
	if err := s.repo.Create(ctx, act); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}
	return act, nil
}

// Close ends an open activity and recomputes its duration from the
// timestamps. Returns the updated activity, or ErrActivityNotFound.
func (s *Service) Close(ctx context.Context, id string, end time.Time) (*Activity, error) {
	act, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if end.Before(act.StartTime) {
		end = act.StartTime
	}
	act.EndTime = &end
	act.DurationSeconds = DurationSeconds(act.StartTime, end)
	if err := s.repo.Update(ctx, act); err != nil {
		return nil, fmt.Errorf("closing activity: %w", err)
	}
	return act, nil
}

// MarkIdle flags an activity as idle time.
func (s *Service) MarkIdle(ctx context.Context, id string) error {
	act, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	act.IsIdle = true
	if err := s.repo.Update(ctx, act); err != nil {
		return fmt.Errorf("marking activity idle: %w", err)
	}
	return nil
}

// UpdateCategory reassigns an activity to a category and merges the target
// category's default tags into the activity's tag set. Existing tags are
// never removed.
func (s *Service) UpdateCategory(ctx context.Context, id string, categoryID *string) (*Activity, error) {
	act, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	act.CategoryID = categoryID
	if categoryID != nil && s.categories != nil {
		defaults, err := s.categories.DefaultTagIDs(ctx, *categoryID)
		if err != nil {
			return nil, fmt.Errorf("loading category tags: %w", err)
		}
		act.TagIDs = dedupTagIDs(append(act.TagIDs, defaults...))
	}
	if err := s.repo.Update(ctx, act); err != nil {
		return nil, fmt.Errorf("updating activity category: %w", err)
	}
	return act, nil
}

// UpdateProject assigns or clears the activity's project.
func (s *Service) UpdateProject(ctx context.Context, id string, projectID *string) (*Activity, error) {
	act, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	act.ProjectID = projectID
	if err := s.repo.Update(ctx, act); err != nil {
		return nil, fmt.Errorf("updating activity project: %w", err)
	}
	return act, nil
}

// CreateRequest describes a manual (user-entered) activity.
type CreateRequest struct {
	AppName     string
	WindowTitle string
	URL         *string
	Start       time.Time
	End         time.Time
	CategoryID  *string
	ProjectID   *string
	TagIDs      []string
}

// Create validates and stores a manual activity. Manual entries bypass the
// tracker and are always closed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Activity, error) {
	if strings.TrimSpace(req.AppName) == "" {
		return nil, ErrInvalidInput
	}
	if !req.End.After(req.Start) {
		return nil, ErrInvalidRange
	}
	act := &Activity{
		ID:              uuid.NewString(),
		AppName:         req.AppName,
		WindowTitle:     req.WindowTitle,
		URL:             req.URL,
		StartTime:       req.Start,
		EndTime:         &req.End,
		DurationSeconds: DurationSeconds(req.Start, req.End),
		CategoryID:      req.CategoryID,
		ProjectID:       req.ProjectID,
		TagIDs:          dedupTagIDs(req.TagIDs),
	}
	if err := s.repo.Create(ctx, act); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}
	return act, nil
}

// UpdateRequest describes a manual edit. Nil fields are left unchanged.
type UpdateRequest struct {
	ID          string
	AppName     *string
	WindowTitle *string
	URL         *string
	Start       *time.Time
	End         *time.Time
	TagIDs      []string
}

// Update applies a manual edit after validating the resulting time range.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Activity, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}
	act, err := s.repo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.AppName != nil {
		if strings.TrimSpace(*req.AppName) == "" {
			return nil, ErrInvalidInput
		}
		act.AppName = *req.AppName
	}
	if req.WindowTitle != nil {
		act.WindowTitle = *req.WindowTitle
	}
	if req.URL != nil {
		act.URL = req.URL
	}
	if req.Start != nil {
		act.StartTime = *req.Start
	}
	if req.End != nil {
		act.EndTime = req.End
	}
	if act.EndTime != nil {
		if !act.EndTime.After(act.StartTime) {
			return nil, ErrInvalidRange
		}
		act.DurationSeconds = DurationSeconds(act.StartTime, *act.EndTime)
	}
	if req.TagIDs != nil {
		act.TagIDs = dedupTagIDs(req.TagIDs)
	}
	if err := s.repo.Update(ctx, act); err != nil {
		return nil, fmt.Errorf("updating activity: %w", err)
	}
	return act, nil
}

// Delete removes an activity.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get retrieves an activity by id.
func (s *Service) Get(ctx context.Context, id string) (*Activity, error) {
	return s.repo.Get(ctx, id)
}

// List returns activities matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Activity, error) {
	return s.repo.List(ctx, filter)
}

// ListDay returns activities whose start falls within the local calendar
// day containing t.
func (s *Service) ListDay(ctx context.Context, t time.Time) ([]Activity, error) {
	return s.repo.List(ctx, DayFilter(t))
}

// RecoverOpen closes every activity left open by a prior run. The true end
// time is unknown, so recovered activities get endTime = startTime and a
// duration of zero. This is an accepted lossy repair; consumers recompute
// durations from timestamps and never trust a stored zero.
func (s *Service) RecoverOpen(ctx context.Context) (int, error) {
	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing open activities: %w", err)
	}
	for i := range open {
		act := &open[i]
		end := act.StartTime
		act.EndTime = &end
		act.DurationSeconds = 0
		if err := s.repo.Update(ctx, act); err != nil {
			return 0, fmt.Errorf("recovering activity %s: %w", act.ID, err)
		}
		s.logger.Warn("closed unfinished activity from previous run",
			"id", act.ID, "app", act.AppName)
	}
	return len(open), nil
}

func dedupTagIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
