package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

type Timer interface {
	Now() time.Time
	Stop()
}

type systemTimer struct{}

// System returns a Timer backed by time.Now.
func System() Timer { return systemTimer{} }

func (systemTimer) Now() time.Time { return time.Now() }
func (systemTimer) Stop()          {}

// CachedTimer refreshes the wall clock once per step so hot paths can read
// the time with a single atomic load. Readings lag by at most step.
type CachedTimer struct {
	now    atomic.Pointer[time.Time]
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func NewCachedTimer(step time.Duration) *CachedTimer {
	t := &CachedTimer{
		ticker: time.NewTicker(step),
		done:   make(chan struct{}),
	}
	t.store(time.Now())

	t.wg.Add(1)
	go t.run()
	return t
}

func (t *CachedTimer) run() {
	defer t.wg.Done()
	for {
		select {
		case now := <-t.ticker.C:
			t.store(now)
		case <-t.done:
			t.ticker.Stop()
			return
		}
	}
}

func (t *CachedTimer) store(now time.Time) {
	// Strip the monotonic reading; callers subtract cached values from each other.
	now = now.Round(0)
	t.now.Store(&now)
}

func (t *CachedTimer) Now() time.Time {
	return *t.now.Load()
}

// Stop halts the refresh goroutine. Now keeps returning the last reading.
func (t *CachedTimer) Stop() {
	t.once.Do(func() {
		close(t.done)
		t.wg.Wait()
	})
}

// ManualTimer only moves when told to.
type ManualTimer struct {
	mu      sync.Mutex
	current time.Time
}

func NewManualTimer(start time.Time) *ManualTimer {
	return &ManualTimer{current: start}
}

func (m *ManualTimer) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *ManualTimer) Stop() {}

// Advance moves the clock forward by d.
func (m *ManualTimer) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
