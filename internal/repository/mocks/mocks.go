package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
	"github.com/sephli/timescope/internal/domain/project"
	"github.com/sephli/timescope/internal/domain/tag"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, act *activity.Activity) error {
	args := m.Called(ctx, act)
	return args.Error(0)
}

func (m *ActivityRepository) Get(ctx context.Context, id string) (*activity.Activity, error) {
	args := m.Called(ctx, id)
	if act, ok := args.Get(0).(*activity.Activity); ok {
		return act, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Update(ctx context.Context, act *activity.Activity) error {
	args := m.Called(ctx, act)
	return args.Error(0)
}

func (m *ActivityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, filter activity.Filter) ([]activity.Activity, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListOpen(ctx context.Context) ([]activity.Activity, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CategoryRepository is a mock for category.Repository.
type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) Create(ctx context.Context, cat *category.Category) error {
	args := m.Called(ctx, cat)
	return args.Error(0)
}

func (m *CategoryRepository) Get(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	if cat, ok := args.Get(0).(*category.Category); ok {
		return cat, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) Update(ctx context.Context, cat *category.Category) error {
	args := m.Called(ctx, cat)
	return args.Error(0)
}

func (m *CategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]category.Category); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) NextPosition(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *CategoryRepository) AddRule(ctx context.Context, rule *category.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *CategoryRepository) UpdateRule(ctx context.Context, rule *category.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *CategoryRepository) DeleteRule(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CategoryRepository) SetDefaultTagIDs(ctx context.Context, categoryID string, tagIDs []string) error {
	args := m.Called(ctx, categoryID, tagIDs)
	return args.Error(0)
}

func (m *CategoryRepository) DefaultTagIDs(ctx context.Context, categoryID string) ([]string, error) {
	args := m.Called(ctx, categoryID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// TagRepository is a mock for tag.Repository.
type TagRepository struct {
	mock.Mock
}

func (m *TagRepository) Create(ctx context.Context, t *tag.Tag) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TagRepository) Get(ctx context.Context, id string) (*tag.Tag, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*tag.Tag); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TagRepository) Update(ctx context.Context, t *tag.Tag) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TagRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TagRepository) List(ctx context.Context) ([]tag.Tag, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]tag.Tag); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context, activeOnly bool) ([]project.Project, error) {
	args := m.Called(ctx, activeOnly)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
