package kick

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCache_ReusesAnalysis(t *testing.T) {
	t.Parallel()

	c := NewCache()
	calls := 0
	fn := func(context.Context) (*Analysis, error) {
		calls++
		return &Analysis{Tempo: 120}, nil
	}

	first, err := c.GetOrCreate(context.Background(), "track-1", fn)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	second, err := c.GetOrCreate(context.Background(), "track-1", fn)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	if first != second {
		t.Error("GetOrCreate() returned a different analysis on a hit")
	}
	if calls != 1 {
		t.Errorf("analyze calls = %d, want 1", calls)
	}

	if got, ok := c.Get("track-1"); !ok || got != first {
		t.Errorf("Get() = %v, %v, want cached analysis", got, ok)
	}
	if _, ok := c.Get("track-2"); ok {
		t.Error("Get() on an unknown key ok = true")
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	c.Delete("track-1")
	if c.Len() != 0 {
		t.Errorf("Len() after Delete = %d, want 0", c.Len())
	}
}

func TestCache_ConcurrentCallersShareOneAnalysis(t *testing.T) {
	t.Parallel()

	c := NewCache()
	var calls atomic.Int32
	release := make(chan struct{})

	fn := func(context.Context) (*Analysis, error) {
		calls.Add(1)
		<-release
		return &Analysis{Tempo: 128}, nil
	}

	const callers = 8
	results := make([]*Analysis, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := c.GetOrCreate(context.Background(), "shared", fn)
			if err != nil {
				t.Errorf("GetOrCreate() error = %v", err)
			}
			results[i] = a
		}()
	}

	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("analyze calls = %d, want 1", n)
	}
	for i, a := range results {
		if a != results[0] {
			t.Errorf("results[%d] differs from results[0]", i)
		}
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	c := NewCache()
	boom := errors.New("decode failed")

	_, err := c.GetOrCreate(context.Background(), "flaky", func(context.Context) (*Analysis, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("GetOrCreate() error = %v, want %v", err, boom)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after failure = %d, want 0", c.Len())
	}

	a, err := c.GetOrCreate(context.Background(), "flaky", func(context.Context) (*Analysis, error) {
		return &Analysis{Tempo: 100}, nil
	})
	if err != nil || a.Tempo != 100 {
		t.Errorf("GetOrCreate() retry = %v, %v, want tempo 100", a, err)
	}
}

// waitingContext signals the first time a cache waiter selects on Done.
type waitingContext struct {
	context.Context
	once    sync.Once
	waiting chan struct{}
}

func (c *waitingContext) Done() <-chan struct{} {
	c.once.Do(func() { close(c.waiting) })
	return c.Context.Done()
}

func TestCache_PanicReleasesWaiters(t *testing.T) {
	t.Parallel()

	c := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})
	recovered := make(chan any)

	go func() {
		defer func() { recovered <- recover() }()
		c.GetOrCreate(context.Background(), "cursed", func(context.Context) (*Analysis, error) {
			close(started)
			<-release
			panic("corrupt frame")
		})
	}()
	<-started

	ctx := &waitingContext{Context: context.Background(), waiting: make(chan struct{})}
	waiterErr := make(chan error)
	go func() {
		_, err := c.GetOrCreate(ctx, "cursed", func(context.Context) (*Analysis, error) {
			t.Error("second analyze call for an in-flight key")
			return nil, nil
		})
		waiterErr <- err
	}()
	<-ctx.waiting

	close(release)
	if r := <-recovered; r != "corrupt frame" {
		t.Errorf("recovered %v, want the original panic", r)
	}
	if err := <-waiterErr; !errors.Is(err, ErrAnalysisPanicked) {
		t.Errorf("waiter error = %v, want ErrAnalysisPanicked", err)
	}

	if c.Len() != 0 {
		t.Errorf("Len() after panic = %d, want 0", c.Len())
	}

	a, err := c.GetOrCreate(context.Background(), "cursed", func(context.Context) (*Analysis, error) {
		return &Analysis{Tempo: 128}, nil
	})
	if err != nil || a.Tempo != 128 {
		t.Errorf("GetOrCreate() after panic = %v, %v, want tempo 128", a, err)
	}
}

func TestCache_WaiterHonoursContext(t *testing.T) {
	t.Parallel()

	c := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		c.GetOrCreate(context.Background(), "slow", func(context.Context) (*Analysis, error) {
			close(started)
			<-release
			return &Analysis{}, nil
		})
	}()
	<-started

	if _, ok := c.Get("slow"); ok {
		t.Error("Get() on an in-flight entry ok = true")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetOrCreate(ctx, "slow", func(context.Context) (*Analysis, error) {
		t.Error("second analyze call for an in-flight key")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetOrCreate() error = %v, want context.Canceled", err)
	}

	close(release)
	<-done
}
