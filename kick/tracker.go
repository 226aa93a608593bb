package kick

import (
	"fmt"
	"slices"
	"sync"
)

// Clock reports the playback position as a fraction of the track length.
type Clock interface {
	Position() float64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() float64

func (f ClockFunc) Position() float64 {
	return f()
}

// BeatHandler is called once per peak the playback position crosses.
type BeatHandler func(index int, position float64)

// Tracker fires beat events as playback advances over precomputed peak
// positions. Each peak fires at most once, in position order. Peaks are
// only fired after Start, since playback begins once analysis is complete.
type Tracker struct {
	positions []float64
	next      int
	started   bool
	clock     Clock
	onBeat    BeatHandler
	mtx       sync.Mutex
}

// NewTracker creates a tracker over fractional peak positions. positions
// is copied and sorted. clock and onBeat may be nil.
func NewTracker(positions []float64, clock Clock, onBeat BeatHandler) *Tracker {
	sorted := slices.Clone(positions)
	slices.Sort(sorted)

	return &Tracker{
		positions: sorted,
		clock:     clock,
		onBeat:    onBeat,
	}
}

// NewTrackerFromAnalysis creates a tracker over the peaks of analysis.
func NewTrackerFromAnalysis(analysis *Analysis, clock Clock, onBeat BeatHandler) *Tracker {
	return NewTracker(analysis.Positions, clock, onBeat)
}

// Start enables beat events.
func (t *Tracker) Start() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.started = true
}

// Update advances the tracker to the playback position and returns the
// indices of every peak crossed since the previous update. Peaks skipped
// over by a large jump all fire, in order.
func (t *Tracker) Update(position float64) ([]int, error) {
	t.mtx.Lock()
	if !t.started {
		t.mtx.Unlock()
		return nil, ErrNotStarted
	}

	var fired []int
	for t.next < len(t.positions) && t.positions[t.next] <= position {
		fired = append(fired, t.next)
		t.next++
	}
	onBeat := t.onBeat
	t.mtx.Unlock()

	// The handler runs unlocked so it may query the tracker.
	if onBeat != nil {
		for _, i := range fired {
			onBeat(i, t.positions[i])
		}
	}
	return fired, nil
}

// Tick reads the clock and updates the tracker.
func (t *Tracker) Tick() ([]int, error) {
	if t.clock == nil {
		return nil, ErrNoClock
	}
	return t.Update(t.clock.Position())
}

// Seek moves the cursor to the first peak after position without firing
// anything, as after the user scrubs the playback.
func (t *Tracker) Seek(position float64) error {
	if position < 0 || position > 1 {
		return fmt.Errorf("seek position must be in [0, 1], got %v", position)
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.next, _ = slices.BinarySearchFunc(t.positions, position, func(p, target float64) int {
		if p <= target {
			return -1
		}
		return 1
	})
	return nil
}

// Reset rewinds the cursor to the first peak. The started state is kept.
func (t *Tracker) Reset() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.next = 0
}

// Done reports whether every peak has fired.
func (t *Tracker) Done() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return t.next >= len(t.positions)
}

// Remaining returns the number of peaks that have not fired yet.
func (t *Tracker) Remaining() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return len(t.positions) - t.next
}
