package httpx

import (
	"context"
	"sync"
	"time"
)

// CounterStore is the capability the rate limiter needs: one atomic
// increment per request. Implementations must make the read-modify-write
// atomic per key so concurrent requests never both observe a stale count.
type CounterStore interface {
	// Incr bumps the counter for key, starting a fresh window if the
	// previous one has elapsed. It returns the post-increment count and
	// when the current window resets.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, reset time.Time, err error)
}

// MemoryCounterStore is the process-local CounterStore: a mutex-guarded map
// of fixed windows. Suitable for a single instance; use the Redis store when
// several instances must share counters.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*window

	// now is swappable for tests.
	now func() time.Time

	lastSweep time.Time
}

type window struct {
	count int64
	start time.Time
	size  time.Duration
}

// elapsed reports whether the window is over at now.
func (w *window) elapsed(now time.Time) bool {
	return now.Sub(w.start) >= w.size
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*window),
		now:      time.Now,
	}
}

func (s *MemoryCounterStore) Incr(
	_ context.Context,
	key string,
	windowSize time.Duration,
) (int64, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.counters[key]
	if w == nil || w.elapsed(now) {
		w = &window{count: 0, start: now, size: windowSize}
		s.counters[key] = w
	}
	w.count++

	s.maybeSweep(now)

	return w.count, w.start.Add(w.size), nil
}

// maybeSweep drops elapsed windows so ephemeral client keys don't accumulate
// forever. Each entry is judged against its own window size: the store is
// shared across endpoint classes, and a short-window caller must never evict
// a live long-window counter. Caller holds the lock.
func (s *MemoryCounterStore) maybeSweep(now time.Time) {
	if now.Sub(s.lastSweep) < 5*time.Minute {
		return
	}
	s.lastSweep = now

	for k, w := range s.counters {
		if w.elapsed(now) {
			delete(s.counters, k)
		}
	}
}
