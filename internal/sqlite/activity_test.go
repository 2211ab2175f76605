package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/tag"
	"github.com/sephli/timescope/internal/repository"
)

func seedTag(t *testing.T, db *DB, id, name string) {
	t.Helper()
	repo := NewTagRepository(db)
	require.NoError(t, repo.Create(context.Background(), &tag.Tag{ID: id, Name: name}))
}

func strPtr(s string) *string { return &s }

func TestActivityRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)
	seedTag(t, db, "t1", "work")
	seedTag(t, db, "t2", "coding")

	start := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	otherID := "other"
	act := &activity.Activity{
		ID:          "a1",
		AppName:     "Code",
		WindowTitle: "main.go",
		URL:         strPtr("https://github.com"),
		StartTime:   start,
		CategoryID:  &otherID,
		TagIDs:      []string{"t1", "t2"},
	}
	require.NoError(t, repo.Create(ctx, act))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, "Code", got.AppName)
	require.Equal(t, "main.go", got.WindowTitle)
	require.NotNil(t, got.URL)
	require.Equal(t, "https://github.com", *got.URL)
	require.True(t, got.StartTime.Equal(start))
	require.Nil(t, got.EndTime, "activity is open")
	require.Equal(t, "other", *got.CategoryID)
	require.Equal(t, []string{"t1", "t2"}, got.TagIDs)
}

func TestActivityRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, activity.ErrActivityNotFound)
}

func TestActivityRepository_UpdateClosesActivity(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	start := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	act := &activity.Activity{ID: "a1", AppName: "Code", StartTime: start}
	require.NoError(t, repo.Create(ctx, act))

	end := start.Add(10 * time.Minute)
	act.EndTime = &end
	act.DurationSeconds = 600
	require.NoError(t, repo.Update(ctx, act))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got.EndTime)
	require.True(t, got.EndTime.Equal(end))
	require.Equal(t, int64(600), got.DurationSeconds)

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Empty(t, open)
}

func TestActivityRepository_UpdateNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)

	err := repo.Update(context.Background(), &activity.Activity{
		ID: "missing", AppName: "Code", StartTime: time.Now(),
	})
	require.ErrorIs(t, err, activity.ErrActivityNotFound)
}

func TestActivityRepository_UpdateReplacesTags(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)
	seedTag(t, db, "t1", "work")
	seedTag(t, db, "t2", "coding")

	act := &activity.Activity{
		ID: "a1", AppName: "Code", StartTime: time.Now(), TagIDs: []string{"t1"},
	}
	require.NoError(t, repo.Create(ctx, act))

	act.TagIDs = []string{"t2"}
	require.NoError(t, repo.Update(ctx, act))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, []string{"t2"}, got.TagIDs)
}

func TestActivityRepository_CreateUnknownTag(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)

	err := repo.Create(context.Background(), &activity.Activity{
		ID: "a1", AppName: "Code", StartTime: time.Now(), TagIDs: []string{"nope"},
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestActivityRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	require.NoError(t, repo.Create(ctx, &activity.Activity{
		ID: "a1", AppName: "Code", StartTime: time.Now(),
	}))
	require.NoError(t, repo.Delete(ctx, "a1"))
	require.ErrorIs(t, repo.Delete(ctx, "a1"), activity.ErrActivityNotFound)
}

func TestActivityRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)
	seedTag(t, db, "t1", "work")

	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	otherID := "other"
	idleTrue := true

	fixtures := []activity.Activity{
		{ID: "a1", AppName: "Code", WindowTitle: "main.go", StartTime: day.Add(9 * time.Hour),
			CategoryID: &otherID, TagIDs: []string{"t1"}},
		{ID: "a2", AppName: "Slack", WindowTitle: "general", StartTime: day.Add(10 * time.Hour)},
		{ID: "a3", AppName: "Code", WindowTitle: "screensaver", StartTime: day.Add(11 * time.Hour),
			IsIdle: true},
		{ID: "a4", AppName: "Firefox", WindowTitle: "docs", StartTime: day.AddDate(0, 0, 1)},
	}
	for i := range fixtures {
		end := fixtures[i].StartTime.Add(5 * time.Minute)
		fixtures[i].EndTime = &end
		fixtures[i].DurationSeconds = 300
		require.NoError(t, repo.Create(ctx, &fixtures[i]))
	}

	t.Run("time range", func(t *testing.T) {
		from := day
		to := day.AddDate(0, 0, 1)
		acts, err := repo.List(ctx, activity.Filter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, acts, 3)
		// Ordered by start time.
		require.Equal(t, "a1", acts[0].ID)
		require.Equal(t, "a3", acts[2].ID)
	})

	t.Run("category", func(t *testing.T) {
		acts, err := repo.List(ctx, activity.Filter{CategoryIDs: []string{"other"}})
		require.NoError(t, err)
		require.Len(t, acts, 1)
		require.Equal(t, "a1", acts[0].ID)
		require.Equal(t, []string{"t1"}, acts[0].TagIDs, "tags loaded on list")
	})

	t.Run("app case-insensitive", func(t *testing.T) {
		acts, err := repo.List(ctx, activity.Filter{Apps: []string{"code"}})
		require.NoError(t, err)
		require.Len(t, acts, 2)
	})

	t.Run("tag", func(t *testing.T) {
		acts, err := repo.List(ctx, activity.Filter{TagIDs: []string{"t1"}})
		require.NoError(t, err)
		require.Len(t, acts, 1)
		require.Equal(t, "a1", acts[0].ID)
	})

	t.Run("text", func(t *testing.T) {
		acts, err := repo.List(ctx, activity.Filter{Text: "general"})
		require.NoError(t, err)
		require.Len(t, acts, 1)
		require.Equal(t, "a2", acts[0].ID)
	})

	t.Run("idle", func(t *testing.T) {
		acts, err := repo.List(ctx, activity.Filter{Idle: &idleTrue})
		require.NoError(t, err)
		require.Len(t, acts, 1)
		require.Equal(t, "a3", acts[0].ID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		acts, err := repo.List(ctx, activity.Filter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, acts, 2)
		require.Equal(t, "a2", acts[0].ID)
	})

	t.Run("combined", func(t *testing.T) {
		from := day
		acts, err := repo.List(ctx, activity.Filter{
			From: &from, Apps: []string{"Code"}, TagIDs: []string{"t1"},
		})
		require.NoError(t, err)
		require.Len(t, acts, 1)
		require.Equal(t, "a1", acts[0].ID)
	})
}

func TestActivityRepository_ListOpen(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	start := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	end := start.Add(5 * time.Minute)
	require.NoError(t, repo.Create(ctx, &activity.Activity{
		ID: "closed", AppName: "Code", StartTime: start, EndTime: &end, DurationSeconds: 300,
	}))
	require.NoError(t, repo.Create(ctx, &activity.Activity{
		ID: "open", AppName: "Slack", StartTime: start.Add(10 * time.Minute),
	}))

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "open", open[0].ID)
	require.Nil(t, open[0].EndTime)
}
