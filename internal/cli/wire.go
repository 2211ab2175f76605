package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sephli/timescope/internal/config"
	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
	"github.com/sephli/timescope/internal/domain/project"
	"github.com/sephli/timescope/internal/domain/tag"
	"github.com/sephli/timescope/internal/sqlite"
)

// app bundles the wired services behind every subcommand.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sqlite.DB

	activityRepo *sqlite.ActivityRepository
	categoryRepo *sqlite.CategoryRepository

	activities *activity.Service
	categories *category.Service
	tags       *tag.Service
	projects   *project.Service
	classifier *category.Classifier
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	activityRepo := sqlite.NewActivityRepository(db)
	categoryRepo := sqlite.NewCategoryRepository(db)
	tagRepo := sqlite.NewTagRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)

	classifier, err := category.NewClassifier(ctx, categoryRepo)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load classifier: %w", err)
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		activityRepo: activityRepo,
		categoryRepo: categoryRepo,
		activities:   activity.NewService(activityRepo, categoryRepo, logger),
		categories:   category.NewService(categoryRepo, logger),
		tags:         tag.NewService(tagRepo, logger),
		projects:     project.NewService(projectRepo, logger),
		classifier:   classifier,
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}

// categoryMap returns categories keyed by id for the aggregation functions.
func (a *app) categoryMap(ctx context.Context) (map[string]category.Category, error) {
	list, err := a.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]category.Category, len(list))
	for _, c := range list {
		m[c.ID] = c
	}
	return m, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
