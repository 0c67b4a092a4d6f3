package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/adam/adam/internal/store"
	"github.com/adam/adam/internal/types"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// Resolver sends a resolve call for a tracked alert.
type Resolver interface {
	Resolve(ctx context.Context, rec types.AlertRecord) error
}

// Scheduler owns one delayed auto-resolve task per active alert. Each task
// sleeps for the alert's duration, then re-checks the store before acting
// so that a manual resolve completed in the meantime is never repeated.
type Scheduler struct {
	log      zerolog.Logger
	store    store.Store
	resolver Resolver
	clock    clock.Clock
	mu       sync.Mutex
	timers   map[string]context.CancelFunc // alert id -> cancel func
}

// NewScheduler creates a scheduler over the given store and resolver.
func NewScheduler(st store.Store, resolver Resolver, log zerolog.Logger) *Scheduler {
	return newScheduler(st, resolver, clock.New(), log)
}

func newScheduler(st store.Store, resolver Resolver, clk clock.Clock, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		log:      log.With().Str("component", "scheduler").Logger(),
		store:    st,
		resolver: resolver,
		clock:    clk,
		timers:   make(map[string]context.CancelFunc),
	}
}

// Schedule arms the auto-resolve timer for an alert id. An existing timer
// for the same id is cancelled first; ids are unique so this only happens
// if a caller schedules the same id twice.
func (s *Scheduler) Schedule(id string, durationSpec string) {
	delay := time.Duration(ParseDurationSeconds(durationSpec)) * time.Second

	s.mu.Lock()
	if cancel, ok := s.timers[id]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.timers[id] = cancel
	s.mu.Unlock()

	s.log.Debug().
		Str("alert_id", id).
		Dur("delay", delay).
		Msg("Auto-resolve timer armed")

	// The timer channel is created before the goroutine starts so the
	// delay counts from the moment of scheduling.
	wake := s.clock.After(delay)
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-wake:
			s.autoResolve(id)
			s.mu.Lock()
			delete(s.timers, id)
			s.mu.Unlock()
		}
	}()
}

// Cancel drops the pending timer for an alert id, if any. Safe to call
// after the timer has already fired.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.timers[id]; ok {
		cancel()
		delete(s.timers, id)
		s.log.Debug().Str("alert_id", id).Msg("Auto-resolve timer cancelled")
	}
}

// Stop cancels all pending timers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cancel := range s.timers {
		cancel()
		delete(s.timers, id)
	}
}

// autoResolve runs when a timer elapses. The record is re-loaded first: if
// a manual resolve already removed or resolved it, the task no-ops so the
// backend is never resolved twice for one id.
func (s *Scheduler) autoResolve(id string) {
	rec, err := s.store.Get(id)
	if err != nil {
		s.log.Debug().
			Str("alert_id", id).
			Msg("Alert already gone, skipping auto-resolve")
		return
	}
	if rec.Status == types.StatusResolved {
		s.log.Debug().
			Str("alert_id", id).
			Msg("Alert already resolved, skipping auto-resolve")
		return
	}

	if err := s.resolver.Resolve(context.Background(), rec); err != nil {
		// No retry: the record stays active for manual handling or a
		// later cleanup sweep.
		s.log.Error().
			Err(err).
			Str("alert_id", id).
			Str("summary", rec.Summary).
			Msg("Failed to auto-resolve alert")
		return
	}

	now := time.Now().UTC()
	if err := s.store.UpdateStatus(id, types.StatusResolved, &now); err != nil {
		s.log.Warn().
			Err(err).
			Str("alert_id", id).
			Msg("Failed to mark alert resolved")
	}
	if err := s.store.Delete(id); err != nil {
		s.log.Warn().
			Err(err).
			Str("alert_id", id).
			Msg("Failed to delete resolved alert")
		return
	}

	s.log.Info().
		Str("alert_id", id).
		Str("summary", rec.Summary).
		Msg("Auto-resolved alert")
}
