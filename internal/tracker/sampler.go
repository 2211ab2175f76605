package tracker

import (
	"context"
	"time"
)

// Sample is one observation of the foreground window. URL is best-effort
// and only present for browser processes.
type Sample struct {
	AppName     string
	WindowTitle string
	URL         *string
}

// WindowSampler reports the current foreground window on demand. A nil
// sample with a nil error means the provider had nothing to report; both
// that and an error are transient and cause the tick to be skipped.
type WindowSampler interface {
	Sample(ctx context.Context) (*Sample, error)
}

// IdleReader reports the time since the last user input.
type IdleReader interface {
	IdleTime(ctx context.Context) (time.Duration, error)
}
