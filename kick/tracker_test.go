package kick

import (
	"errors"
	"slices"
	"testing"
)

func TestTracker_FiresEachPeakOnceInOrder(t *testing.T) {
	t.Parallel()

	var fired []int
	var at []float64
	tr := NewTracker([]float64{0.9, 0.1, 0.3, 0.2}, nil, func(i int, pos float64) {
		fired = append(fired, i)
		at = append(at, pos)
	})

	if _, err := tr.Update(0.5); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Update() before Start error = %v, want ErrNotStarted", err)
	}

	tr.Start()

	steps := []struct {
		position float64
		want     []int
	}{
		{0.05, nil},
		{0.1, []int{0}},
		{0.25, []int{1}},
		{0.25, nil},
		{0.2, nil},
		{1.0, []int{2, 3}},
		{1.0, nil},
	}

	for _, s := range steps {
		got, err := tr.Update(s.position)
		if err != nil {
			t.Fatalf("Update(%v) error = %v", s.position, err)
		}
		if !slices.Equal(got, s.want) {
			t.Errorf("Update(%v) = %v, want %v", s.position, got, s.want)
		}
	}

	if want := []int{0, 1, 2, 3}; !slices.Equal(fired, want) {
		t.Errorf("handler indices = %v, want %v", fired, want)
	}
	if want := []float64{0.1, 0.2, 0.3, 0.9}; !slices.Equal(at, want) {
		t.Errorf("handler positions = %v, want %v", at, want)
	}
	if !tr.Done() || tr.Remaining() != 0 {
		t.Errorf("Done(), Remaining() = %v, %d, want true, 0", tr.Done(), tr.Remaining())
	}
}

func TestTracker_Tick(t *testing.T) {
	t.Parallel()

	position := 0.0
	tr := NewTracker([]float64{0.25, 0.5, 0.75}, ClockFunc(func() float64 { return position }), nil)
	tr.Start()

	for _, step := range []struct {
		position float64
		want     int
	}{
		{0.1, 0},
		{0.6, 2},
		{0.8, 1},
	} {
		position = step.position
		got, err := tr.Tick()
		if err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if len(got) != step.want {
			t.Errorf("Tick() at %v fired %v, want %d beats", step.position, got, step.want)
		}
	}

	if _, err := NewTracker(nil, nil, nil).Tick(); !errors.Is(err, ErrNoClock) {
		t.Errorf("Tick() without clock error = %v, want ErrNoClock", err)
	}
}

func TestTracker_SeekAndReset(t *testing.T) {
	t.Parallel()

	tr := NewTracker([]float64{0.1, 0.2, 0.3, 0.4}, nil, nil)
	tr.Start()

	if err := tr.Seek(0.2); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if tr.Remaining() != 2 {
		t.Errorf("Remaining() after Seek(0.2) = %d, want 2", tr.Remaining())
	}

	got, err := tr.Update(0.35)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !slices.Equal(got, []int{2}) {
		t.Errorf("Update(0.35) after seek = %v, want [2]", got)
	}

	tr.Reset()
	if tr.Remaining() != 4 || tr.Done() {
		t.Errorf("Remaining() after Reset = %d, want 4", tr.Remaining())
	}
	if got, _ := tr.Update(0.15); !slices.Equal(got, []int{0}) {
		t.Errorf("Update(0.15) after Reset = %v, want [0]", got)
	}

	if err := tr.Seek(1.5); err == nil {
		t.Error("Seek(1.5) error = nil, want error")
	}
}

func TestTracker_HandlerMayQueryTracker(t *testing.T) {
	t.Parallel()

	var remaining []int
	var tr *Tracker
	tr = NewTracker([]float64{0.1, 0.2}, nil, func(int, float64) {
		remaining = append(remaining, tr.Remaining())
	})
	tr.Start()

	if _, err := tr.Update(1); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !slices.Equal(remaining, []int{0, 0}) {
		t.Errorf("Remaining() inside handler = %v, want [0 0]", remaining)
	}
}

func TestNewTrackerFromAnalysis(t *testing.T) {
	t.Parallel()

	positions := []float64{0.5, 0.25}
	tr := NewTrackerFromAnalysis(&Analysis{Positions: positions}, nil, nil)

	if tr.Remaining() != 2 {
		t.Errorf("Remaining() = %d, want 2", tr.Remaining())
	}
	if positions[0] != 0.5 {
		t.Error("NewTrackerFromAnalysis() sorted the caller's slice")
	}
}
