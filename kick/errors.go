package kick

import "errors"

var (
	// ErrNotStarted is returned when a Tracker is updated before Start.
	ErrNotStarted = errors.New("tracker not started")
	// ErrNoClock is returned by Tick when the tracker has no clock.
	ErrNoClock = errors.New("tracker has no clock")
	// ErrAnalysisPanicked is returned to callers waiting on a cache entry
	// whose analysis panicked.
	ErrAnalysisPanicked = errors.New("analysis panicked")
)
