package tracker

import (
	"log/slog"
	"time"
)

// EventKind identifies a tracker notification.
type EventKind string

const (
	EventTrackingStarted EventKind = "tracking_started"
	EventTrackingStopped EventKind = "tracking_stopped"
	EventIdleStarted     EventKind = "idle_started"
	EventIdleEnded       EventKind = "idle_ended"
)

// Event is a fire-and-forget tracker notification.
type Event struct {
	Kind EventKind
	At   time.Time
}

// Notifier consumes tracker events. Delivery is best-effort; implementations
// must not block the tick.
type Notifier interface {
	Notify(Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

// LogNotifier writes events to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(e Event) {
	if n.Logger != nil {
		n.Logger.Info("tracker event", "kind", string(e.Kind), "at", e.At)
	}
}
