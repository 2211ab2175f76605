//go:build !linux

package platform

import (
	"errors"

	"github.com/sephli/timescope/internal/tracker"
)

// ErrUnsupported indicates no window adapter exists for this platform.
var ErrUnsupported = errors.New("no window sampler for this platform")

// New returns the platform sampler and idle reader.
func New() (tracker.WindowSampler, tracker.IdleReader, error) {
	return nil, nil, ErrUnsupported
}
