package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sephli/timescope/internal/platform"
	"github.com/sephli/timescope/internal/tracker"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track window focus until interrupted",
	RunE:  runTrack,
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Close anything a previous run left open before tracking anew.
	recovered, err := a.activities.RecoverOpen(ctx)
	if err != nil {
		return err
	}
	if recovered > 0 {
		a.logger.Info("recovered unfinished activities", "count", recovered)
	}

	sampler, idle, err := platform.New()
	if err != nil {
		return err
	}

	t := tracker.New(tracker.Deps{
		Sampler:    sampler,
		Idle:       idle,
		Activities: a.activities,
		Classifier: a.classifier,
		Notifier:   tracker.LogNotifier{Logger: a.logger},
		Logger:     a.logger,
	}, tracker.Settings{
		Interval:      time.Duration(a.cfg.Tracking.IntervalMs) * time.Millisecond,
		IdleThreshold: time.Duration(a.cfg.Tracking.IdleThresholdMs) * time.Millisecond,
		ExcludedApps:  a.cfg.Tracking.ExcludedApps,
	})

	if err := t.Start(ctx); err != nil {
		return err
	}
	return t.Run(ctx)
}
