// Package scheduler maintains a process-wide set of keyed recurring jobs.
package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/user/weatherbot/pkg/logger"
)

// ErrJobExists is returned when scheduling under a key that is already
// registered. Callers derive keys deterministically, so a collision means
// the job is already in place and the call can be ignored.
var ErrJobExists = errors.New("job already scheduled")

// ErrJobNotFound is returned when unscheduling a key that is not
// registered. Call sites that cannot guarantee the job exists check it
// with errors.Is and move on.
var ErrJobNotFound = errors.New("job not found")

// Scheduler wraps a cron runner with a keyed job registry. Keys make
// registration collision-proof and cancellation idempotent: the caller
// recomputes the key instead of tracking entry handles.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New creates a stopped scheduler. Jobs can be registered before Start;
// they begin firing once Start is called.
func New() *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
	}
}

// Start begins firing registered jobs on their triggers.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info().Int("jobs", s.Len()).Msg("Scheduler started")
}

// Stop stops the trigger clock and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info().Msg("Stopping scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Schedule registers a recurring job under a unique key. The trigger
// uses standard 5-field cron syntax. Duplicate keys are rejected with
// ErrJobExists, not merged.
func (s *Scheduler) Schedule(key, spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, key)
	}

	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("invalid trigger spec %q: %w", spec, err)
	}
	s.entries[key] = id

	logger.Debug().Str("key", key).Str("spec", spec).Msg("Job scheduled")
	return nil
}

// Unschedule removes the job registered under key.
func (s *Scheduler) Unschedule(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, key)
	}
	s.cron.Remove(id)
	delete(s.entries, key)

	logger.Debug().Str("key", key).Msg("Job unscheduled")
	return nil
}

// Has reports whether a job is registered under key.
func (s *Scheduler) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Keys returns a snapshot of all registered job keys.
func (s *Scheduler) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
