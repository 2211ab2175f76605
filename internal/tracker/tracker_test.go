package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
	"github.com/sephli/timescope/internal/repository/mocks"
)

// memRepo is a stateful in-memory activity.Repository so multi-tick
// scenarios can assert on the stored records.
type memRepo struct {
	acts       map[string]*activity.Activity
	order      []string
	failCreate error
	failUpdate error
}

func newMemRepo() *memRepo {
	return &memRepo{acts: map[string]*activity.Activity{}}
}

func (r *memRepo) Create(_ context.Context, act *activity.Activity) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	copied := *act
	r.acts[act.ID] = &copied
	r.order = append(r.order, act.ID)
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (*activity.Activity, error) {
	act, ok := r.acts[id]
	if !ok {
		return nil, activity.ErrActivityNotFound
	}
	copied := *act
	return &copied, nil
}

func (r *memRepo) Update(_ context.Context, act *activity.Activity) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.acts[act.ID]; !ok {
		return activity.ErrActivityNotFound
	}
	copied := *act
	r.acts[act.ID] = &copied
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	delete(r.acts, id)
	return nil
}

func (r *memRepo) List(_ context.Context, _ activity.Filter) ([]activity.Activity, error) {
	var out []activity.Activity
	for _, id := range r.order {
		if act, ok := r.acts[id]; ok {
			out = append(out, *act)
		}
	}
	return out, nil
}

func (r *memRepo) ListOpen(_ context.Context) ([]activity.Activity, error) {
	var out []activity.Activity
	for _, id := range r.order {
		if act, ok := r.acts[id]; ok && act.EndTime == nil {
			out = append(out, *act)
		}
	}
	return out, nil
}

func (r *memRepo) openCount() int {
	n := 0
	for _, act := range r.acts {
		if act.EndTime == nil {
			n++
		}
	}
	return n
}

type fakeSampler struct {
	sample *Sample
	err    error
}

func (s *fakeSampler) Sample(context.Context) (*Sample, error) { return s.sample, s.err }

type fakeIdle struct {
	idle time.Duration
	err  error
}

func (f *fakeIdle) IdleTime(context.Context) (time.Duration, error) { return f.idle, f.err }

type captureNotifier struct {
	events []Event
}

func (n *captureNotifier) Notify(e Event) { n.events = append(n.events, e) }

func (n *captureNotifier) kinds() []EventKind {
	out := make([]EventKind, len(n.events))
	for i, e := range n.events {
		out[i] = e.Kind
	}
	return out
}

type fixture struct {
	tracker  *Tracker
	repo     *memRepo
	sampler  *fakeSampler
	idle     *fakeIdle
	notifier *captureNotifier
	clock    *time.Time
}

func newFixture(t *testing.T, settings Settings) *fixture {
	t.Helper()

	catRepo := &mocks.CategoryRepository{}
	catRepo.On("List", context.Background()).Return([]category.Category{
		{
			ID:            "dev",
			Name:          "Dev",
			Position:      0,
			DefaultTagIDs: []string{"work"},
			Rules:         []category.Rule{{Type: category.RuleApp, Pattern: "Code"}},
		},
		{
			ID:        "other",
			Name:      category.OtherCategoryName,
			IsDefault: true,
			Position:  1000000,
		},
	}, nil)
	classifier, err := category.NewClassifier(context.Background(), catRepo)
	require.NoError(t, err)

	repo := newMemRepo()
	sampler := &fakeSampler{sample: &Sample{AppName: "Visual Studio Code", WindowTitle: "main.go"}}
	idle := &fakeIdle{}
	notifier := &captureNotifier{}

	tr := New(Deps{
		Sampler:    sampler,
		Idle:       idle,
		Activities: activity.NewService(repo, nil, nil),
		Classifier: classifier,
		Notifier:   notifier,
	}, settings)

	now := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	clock := &now
	tr.now = func() time.Time { return *clock }

	return &fixture{tracker: tr, repo: repo, sampler: sampler, idle: idle, notifier: notifier, clock: clock}
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func defaultSettings() Settings {
	return Settings{
		Interval:      5 * time.Second,
		IdleThreshold: 180 * time.Second,
	}
}

func TestTracker_StartOpensClassifiedActivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())

	require.NoError(t, f.tracker.Start(ctx))
	require.Equal(t, Active, f.tracker.State())
	require.Equal(t, 1, f.repo.openCount())

	open, err := f.repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Equal(t, "Visual Studio Code", open[0].AppName)
	require.NotNil(t, open[0].CategoryID)
	require.Equal(t, "dev", *open[0].CategoryID)
	require.Equal(t, []string{"work"}, open[0].TagIDs)
	require.Equal(t, []EventKind{EventTrackingStarted}, f.notifier.kinds())

	// Starting again is a no-op.
	require.NoError(t, f.tracker.Start(ctx))
	require.Equal(t, 1, f.repo.openCount())
}

func TestTracker_WindowChangeClosesAndOpens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.tracker.Start(ctx))

	// Unchanged window: bookkeeping only, no new record.
	f.advance(5 * time.Second)
	f.tracker.tick(ctx)
	require.Len(t, f.repo.acts, 1)

	f.advance(5 * time.Second)
	f.sampler.sample = &Sample{AppName: "Slack", WindowTitle: "general"}
	f.tracker.tick(ctx)

	require.Len(t, f.repo.acts, 2)
	require.Equal(t, 1, f.repo.openCount(), "at most one open activity")

	all, _ := f.repo.List(ctx, activity.Filter{})
	first, second := all[0], all[1]
	require.NotNil(t, first.EndTime)
	require.Equal(t, int64(10), first.DurationSeconds)
	require.True(t, second.Open())
	require.Equal(t, "Slack", second.AppName)
	require.Equal(t, "other", *second.CategoryID, "unmatched app falls back")
}

func TestTracker_IdleTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.tracker.Start(ctx))

	// Idle 200s >= threshold 180s: first idle tick closes the activity as
	// idle, emits idle-start, and skips sampling.
	f.advance(5 * time.Second)
	f.idle.idle = 200 * time.Second
	f.tracker.tick(ctx)

	require.Equal(t, 0, f.repo.openCount())
	all, _ := f.repo.List(ctx, activity.Filter{})
	require.True(t, all[0].IsIdle)
	require.NotNil(t, all[0].EndTime)
	require.Contains(t, f.notifier.kinds(), EventIdleStarted)

	// Still idle: nothing further happens.
	f.advance(5 * time.Second)
	f.tracker.tick(ctx)
	require.Len(t, f.repo.acts, 1)

	// Input returns: idle-end fires and sampling resumes on the same tick.
	f.advance(5 * time.Second)
	f.idle.idle = 0
	f.tracker.tick(ctx)

	require.Contains(t, f.notifier.kinds(), EventIdleEnded)
	require.Equal(t, 1, f.repo.openCount(), "sampling resumed on the idle-end tick")
}

func TestTracker_ExcludedAppSkipsTick(t *testing.T) {
	ctx := context.Background()
	settings := defaultSettings()
	settings.ExcludedApps = []string{"1password"}
	f := newFixture(t, settings)
	require.NoError(t, f.tracker.Start(ctx))

	f.advance(5 * time.Second)
	f.sampler.sample = &Sample{AppName: "1Password", WindowTitle: "Vault"}
	f.tracker.tick(ctx)

	require.Len(t, f.repo.acts, 1, "excluded app recorded nothing")
	require.Equal(t, 1, f.repo.openCount(), "previous activity stays open")
}

func TestTracker_SampleFailureSkipsTick(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.tracker.Start(ctx))

	f.advance(5 * time.Second)
	f.sampler.sample = nil
	f.sampler.err = errors.New("window provider timeout")
	f.tracker.tick(ctx)

	require.Len(t, f.repo.acts, 1)
	require.Equal(t, 1, f.repo.openCount())
}

func TestTracker_PersistenceFailureDoesNotAdvanceState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.tracker.Start(ctx))

	f.advance(5 * time.Second)
	f.sampler.sample = &Sample{AppName: "Slack", WindowTitle: "general"}
	f.repo.failCreate = errors.New("store unavailable")
	f.tracker.tick(ctx)

	require.Equal(t, 0, f.repo.openCount(), "previous activity closed before the failure")

	// The store recovers; the next tick opens the new activity.
	f.advance(5 * time.Second)
	f.repo.failCreate = nil
	f.tracker.tick(ctx)

	require.Equal(t, 1, f.repo.openCount())
	open, _ := f.repo.ListOpen(ctx)
	require.Equal(t, "Slack", open[0].AppName)
}

func TestTracker_PauseResumeStop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())

	// Pause and stop are safe with nothing open.
	require.NoError(t, f.tracker.Pause(ctx))
	require.NoError(t, f.tracker.Stop(ctx))

	require.NoError(t, f.tracker.Start(ctx))
	f.advance(5 * time.Second)
	require.NoError(t, f.tracker.Pause(ctx))
	require.Equal(t, Paused, f.tracker.State())
	require.Equal(t, 0, f.repo.openCount(), "pause closes the open activity")

	// Ticks while paused do nothing.
	f.advance(5 * time.Second)
	f.tracker.tick(ctx)
	require.Len(t, f.repo.acts, 1)

	require.NoError(t, f.tracker.Resume(ctx))
	require.Equal(t, Active, f.tracker.State())
	require.Equal(t, 1, f.repo.openCount(), "resume samples immediately")

	f.advance(5 * time.Second)
	require.NoError(t, f.tracker.Stop(ctx))
	require.Equal(t, Stopped, f.tracker.State())
	require.Equal(t, 0, f.repo.openCount())
	require.Contains(t, f.notifier.kinds(), EventTrackingStopped)
}

func TestTracker_StopPersistenceFailureKeepsTracking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.tracker.Start(ctx))

	f.advance(5 * time.Second)
	f.repo.failUpdate = errors.New("store unavailable")
	require.Error(t, f.tracker.Stop(ctx))
	require.Equal(t, Active, f.tracker.State(), "state does not advance past a failed close")

	f.repo.failUpdate = nil
	require.NoError(t, f.tracker.Stop(ctx))
	require.Equal(t, Stopped, f.tracker.State())
}

func TestTracker_UpdateSettingsAppliesNextTick(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.tracker.Start(ctx))

	settings := defaultSettings()
	settings.IdleThreshold = 60 * time.Second
	f.tracker.UpdateSettings(settings)

	f.advance(5 * time.Second)
	f.idle.idle = 90 * time.Second
	f.tracker.tick(ctx)

	require.Equal(t, 0, f.repo.openCount(), "new threshold effective on the next tick")
	require.Contains(t, f.notifier.kinds(), EventIdleStarted)
}
