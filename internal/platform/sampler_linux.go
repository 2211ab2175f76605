//go:build linux

// Package platform provides best-effort adapters for the host's window and
// idle information. The engine treats these as external collaborators: any
// failure here surfaces as a skipped sample, never as a crash.
package platform

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sephli/timescope/internal/tracker"
)

const queryTimeout = 2 * time.Second

// X11Sampler reads the foreground window via xdotool and idle time via
// xprintidle. Both tools are queried with a short timeout; a missing tool
// or a failed query yields a nil sample.
type X11Sampler struct{}

// New returns the platform sampler and idle reader.
func New() (tracker.WindowSampler, tracker.IdleReader, error) {
	s := &X11Sampler{}
	return s, s, nil
}

// Sample returns the active window's process name and title.
func (s *X11Sampler) Sample(ctx context.Context) (*tracker.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	winID, err := output(ctx, "xdotool", "getactivewindow")
	if err != nil || winID == "" {
		return nil, nil
	}
	title, err := output(ctx, "xdotool", "getwindowname", winID)
	if err != nil {
		return nil, nil
	}
	app, err := output(ctx, "xdotool", "getwindowclassname", winID)
	if err != nil || app == "" {
		return nil, nil
	}

	return &tracker.Sample{AppName: app, WindowTitle: title}, nil
}

// IdleTime returns milliseconds since the last input event.
func (s *X11Sampler) IdleTime(ctx context.Context) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := output(ctx, "xprintidle")
	if err != nil {
		return 0, err
	}
	ms, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
