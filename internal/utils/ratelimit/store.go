package ratelimit

import (
	"sync"
	"time"
)

// Store holds one limiter per client and category. Categories let the
// login endpoint run a tighter budget than the rest of the API.
type Store struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	rates    map[string]Rate
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store with the given default rate. Limiters idle for
// longer than idleTTL are evicted by a background sweep.
func NewStore(defaultRate Rate, idleTTL time.Duration) *Store {
	s := &Store{
		limiters: make(map[string]*Limiter),
		rates:    map[string]Rate{"default": defaultRate},
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
	}

	go s.sweep()

	return s
}

// SetRate registers a rate for a category, overriding the default.
func (s *Store) SetRate(category string, rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = rate
}

// Allow reports whether the client may make a request in the given category.
func (s *Store) Allow(clientID, category string) bool {
	key := category + ":" + clientID

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()

	if exists {
		return limiter.Allow()
	}

	s.mu.Lock()
	// Re-check under the write lock
	limiter, exists = s.limiters[key]
	if !exists {
		rate, ok := s.rates[category]
		if !ok {
			rate = s.rates["default"]
		}
		limiter = NewLimiter(rate)
		s.limiters[key] = limiter
	}
	s.mu.Unlock()

	return limiter.Allow()
}

// Close stops the background sweep.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Store) sweep() {
	ticker := time.NewTicker(s.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-s.idleTTL))
		case <-s.stop:
			return
		}
	}
}

func (s *Store) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, limiter := range s.limiters {
		if limiter.idleSince(cutoff) {
			delete(s.limiters, key)
		}
	}
}
