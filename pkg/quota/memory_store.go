package quota

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultSweepInterval = time.Minute

// MemoryStore is the in-process Store fallback for single-instance or
// degraded-mode deployments. State is lost on restart and is not shared
// between concurrently running instances.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	timeProvider  func() time.Time
	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

type bucket struct {
	count     int64
	expiresAt time.Time
}

type MemoryStoreOpts struct {
	TimeProvider  func() time.Time
	SweepInterval time.Duration
}

func NewMemoryStore(opts *MemoryStoreOpts) *MemoryStore {
	timeProvider := time.Now
	sweepInterval := defaultSweepInterval
	if opts != nil && opts.TimeProvider != nil {
		timeProvider = opts.TimeProvider
	}
	if opts != nil && opts.SweepInterval > 0 {
		sweepInterval = opts.SweepInterval
	}

	s := &MemoryStore{
		buckets:       make(map[string]*bucket),
		timeProvider:  timeProvider,
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) CheckAndIncrement(
	_ context.Context,
	identifier, action string,
	limit int,
	window time.Duration,
) (Decision, error) {
	key := fmt.Sprintf("%s:%s", action, identifier)
	now := s.timeProvider()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || !b.expiresAt.After(now) {
		b = &bucket{expiresAt: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++

	return decide(limit, b.count, b.expiresAt.Sub(now)), nil
}

// sweep evicts expired buckets on its own timer. It only ever removes
// entries, so it never interferes with the request path beyond the lock.
func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := s.timeProvider()
			s.mu.Lock()
			for key, b := range s.buckets {
				if !b.expiresAt.After(now) {
					delete(s.buckets, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}
