package activity

import "errors"

var (
	// ErrActivityNotFound indicates the activity doesn't exist.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidInput indicates invalid input for activity operations.
	ErrInvalidInput = errors.New("invalid activity input")
	// ErrInvalidRange indicates end time is not after start time.
	ErrInvalidRange = errors.New("activity end must be after start")
)
