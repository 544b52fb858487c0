// Package cache provides the process-lifetime feed cache: a TTL
// key/value store with lazy expiration on read and an optional
// cron-driven sweep. Nothing is persisted across restarts.
package cache

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "holidaycal/internal/log"
)

// DefaultTTL is the expiration applied to upstream feed entries.
const DefaultTTL = 12 * time.Hour

// DefaultSweepSchedule runs the sweep once an hour so memory does not
// grow unbounded between reads.
const DefaultSweepSchedule = "@hourly"

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store is a concurrency-safe in-memory cache. Entries are owned
// exclusively by the store; Get returns a copy-safe byte slice that
// callers must treat as read-only.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
}

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Set stores value under key with expiration now+ttl, overwriting any
// existing entry. A non-positive ttl falls back to DefaultTTL.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Get returns the value for key, or ok=false when no entry exists or
// its expiration has passed. Reading an expired entry evicts it.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Sweep evicts every entry whose expiration has passed, independent of
// reads.
func (s *Store) Sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 {
		appLog.Debug("cache sweep", "removed", removed, "remaining", len(s.entries))
	}
}

// Len reports the number of entries currently held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartSweeper schedules Sweep on the given cron schedule and returns
// a stop function that cancels the background task and waits for any
// in-flight sweep to finish. The sweeper is owned by the caller's
// lifecycle, typically main.
func (s *Store) StartSweeper(schedule string) (func(), error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, s.Sweep); err != nil {
		return nil, err
	}
	c.Start()

	return func() {
		<-c.Stop().Done()
	}, nil
}
