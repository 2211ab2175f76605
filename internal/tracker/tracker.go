package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sephli/timescope/internal/domain/activity"
	"github.com/sephli/timescope/internal/domain/category"
)

// State is the tracker's lifecycle state.
type State int

const (
	Stopped State = iota
	Active
	Paused
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Settings is the snapshot of tracking configuration read at the top of
// each tick. Updates apply atomically between ticks.
type Settings struct {
	Interval      time.Duration
	IdleThreshold time.Duration
	ExcludedApps  []string
}

// Deps collects the tracker's collaborators.
type Deps struct {
	Sampler    WindowSampler
	Idle       IdleReader
	Activities *activity.Service
	Classifier *category.Classifier
	Notifier   Notifier
	Logger     *slog.Logger
}

// Tracker turns periodic window samples into activity records. All methods
// are serialized on an internal mutex; the state machine assumes exclusive
// access and ticks never overlap. At most one activity is open at a time,
// referenced only by id.
type Tracker struct {
	sampler    WindowSampler
	idle       IdleReader
	activities *activity.Service
	classifier *category.Classifier
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	state     State
	settings  Settings
	currentID string
	lastApp   string
	lastTitle string
	lastSeen  time.Time
	idleNow   bool

	// restart wakes the run loop after a settings change so the ticker
	// picks up a new interval.
	restart chan struct{}
}

// New creates a tracker in the Stopped state.
func New(deps Deps, settings Settings) *Tracker {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Tracker{
		sampler:    deps.Sampler,
		idle:       deps.Idle,
		activities: deps.Activities,
		classifier: deps.Classifier,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		settings:   settings,
		restart:    make(chan struct{}, 1),
	}
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// UpdateSettings replaces the tracking settings. The change is applied
// atomically and takes effect on the next tick; while tracking, the run
// loop restarts its ticker without touching the open activity.
func (t *Tracker) UpdateSettings(s Settings) {
	t.mu.Lock()
	t.settings = s
	t.mu.Unlock()
	select {
	case t.restart <- struct{}{}:
	default:
	}
}

// Start transitions Stopped -> Active and performs an immediate sample.
// No-op if tracking is already running or paused. A persistence failure is
// returned and leaves the tracker stopped.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Stopped {
		return nil
	}
	t.state = Active
	if err := t.sampleAndOpen(ctx); err != nil {
		t.state = Stopped
		return err
	}
	t.notifier.Notify(Event{Kind: EventTrackingStarted, At: t.now()})
	t.logger.Info("tracking started", "interval", t.settings.Interval)
	return nil
}

// Stop closes the open activity (if any) and halts tracking. Safe to call
// from any state.
func (t *Tracker) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Stopped {
		return nil
	}
	if err := t.closeCurrent(ctx); err != nil {
		return err
	}
	t.state = Stopped
	t.idleNow = false
	t.lastApp, t.lastTitle = "", ""
	t.notifier.Notify(Event{Kind: EventTrackingStopped, At: t.now()})
	t.logger.Info("tracking stopped")
	return nil
}

// Pause closes the open activity and suspends sampling without discarding
// tracker state. No-op unless currently Active.
func (t *Tracker) Pause(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Active {
		return nil
	}
	if err := t.closeCurrent(ctx); err != nil {
		return err
	}
	t.state = Paused
	t.idleNow = false
	t.lastApp, t.lastTitle = "", ""
	t.logger.Info("tracking paused")
	return nil
}

// Resume transitions Paused -> Active with an immediate sample. No-op
// unless currently Paused.
func (t *Tracker) Resume(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Paused {
		return nil
	}
	t.state = Active
	if err := t.sampleAndOpen(ctx); err != nil {
		t.state = Paused
		return err
	}
	t.logger.Info("tracking resumed")
	return nil
}

// Run drives periodic ticks until ctx is canceled, then stops tracking.
// Call Start first; Run only schedules ticks while the tracker is Active.
// Ticks execute to completion before the next one is scheduled.
func (t *Tracker) Run(ctx context.Context) error {
	t.mu.Lock()
	interval := t.settings.Interval
	t.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := t.Stop(stopCtx)
			cancel()
			return err
		case <-t.restart:
			t.mu.Lock()
			interval = t.settings.Interval
			t.mu.Unlock()
			ticker.Reset(interval)
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// tick runs one sampling cycle. Transient sampler and idle-reader failures
// skip the cycle; persistence failures leave the in-memory state where it
// was so the next tick retries.
func (t *Tracker) tick(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Active {
		return
	}
	settings := t.settings
	now := t.now()

	idleFor, err := t.idle.IdleTime(ctx)
	if err != nil {
		t.logger.Debug("idle read failed, skipping tick", "error", err)
		return
	}

	if idleFor >= settings.IdleThreshold {
		if t.idleNow {
			return
		}
		// First idle tick: the open activity becomes idle time and closes.
		if t.currentID != "" {
			if err := t.activities.MarkIdle(ctx, t.currentID); err != nil {
				t.logger.Error("marking activity idle", "error", err)
				return
			}
			if _, err := t.activities.Close(ctx, t.currentID, now); err != nil {
				t.logger.Error("closing idle activity", "error", err)
				return
			}
			t.currentID = ""
		}
		t.idleNow = true
		t.lastApp, t.lastTitle = "", ""
		t.notifier.Notify(Event{Kind: EventIdleStarted, At: now})
		return
	}

	if t.idleNow {
		t.idleNow = false
		t.notifier.Notify(Event{Kind: EventIdleEnded, At: now})
		// Fall through: sampling resumes on this same tick.
	}

	sample, err := t.sampler.Sample(ctx)
	if err != nil || sample == nil {
		if err != nil {
			t.logger.Debug("window sample failed, skipping tick", "error", err)
		}
		return
	}

	if excludedApp(sample.AppName, settings.ExcludedApps) {
		return
	}

	if sample.AppName == t.lastApp && sample.WindowTitle == t.lastTitle {
		t.lastSeen = now
		return
	}

	if err := t.switchTo(ctx, sample, now); err != nil {
		t.logger.Error("switching activity", "error", err)
	}
}

// sampleAndOpen performs the immediate sample-and-classify done on start
// and resume. Sampling failures are non-fatal; persistence failures are
// returned. Caller holds the mutex.
func (t *Tracker) sampleAndOpen(ctx context.Context) error {
	sample, err := t.sampler.Sample(ctx)
	if err != nil || sample == nil {
		if err != nil {
			t.logger.Debug("initial window sample failed", "error", err)
		}
		return nil
	}
	if excludedApp(sample.AppName, t.settings.ExcludedApps) {
		return nil
	}
	return t.switchTo(ctx, sample, t.now())
}

// switchTo closes the open activity and opens a new one for the sampled
// window. currentID only advances after each persistence call succeeds.
// Caller holds the mutex.
func (t *Tracker) switchTo(ctx context.Context, sample *Sample, now time.Time) error {
	if err := t.closeCurrent(ctx); err != nil {
		return err
	}

	classified := t.classifier.Classify(sample.AppName, sample.WindowTitle, sample.URL)
	var categoryID *string
	if classified.CategoryID != "" {
		categoryID = &classified.CategoryID
	}

	act, err := t.activities.Start(ctx, activity.StartRequest{
		AppName:     sample.AppName,
		WindowTitle: sample.WindowTitle,
		URL:         sample.URL,
		Start:       now,
		CategoryID:  categoryID,
		TagIDs:      classified.TagIDs,
	})
	if err != nil {
		// The previous activity is already closed; retry opening next tick.
		t.lastApp, t.lastTitle = "", ""
		return fmt.Errorf("opening activity: %w", err)
	}

	t.currentID = act.ID
	t.lastApp = sample.AppName
	t.lastTitle = sample.WindowTitle
	t.lastSeen = now
	return nil
}

// closeCurrent closes the open activity, if any. Caller holds the mutex.
func (t *Tracker) closeCurrent(ctx context.Context) error {
	if t.currentID == "" {
		return nil
	}
	if _, err := t.activities.Close(ctx, t.currentID, t.now()); err != nil {
		return fmt.Errorf("closing activity: %w", err)
	}
	t.currentID = ""
	return nil
}

func excludedApp(app string, excluded []string) bool {
	for _, e := range excluded {
		if strings.EqualFold(app, e) {
			return true
		}
	}
	return false
}
