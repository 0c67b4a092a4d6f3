package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adam/adam/internal/store"
	"github.com/adam/adam/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dispatcher sends fire and resolve calls to the alerting backend.
type Dispatcher interface {
	Fire(ctx context.Context, rec types.AlertRecord) error
	Resolve(ctx context.Context, rec types.AlertRecord) error
}

// Timers arms and cancels per-alert auto-resolve timers.
type Timers interface {
	Schedule(id string, durationSpec string)
	Cancel(id string)
}

// ValidationError rejects an intent before any backend dispatch.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FireResult reports the outcome of a fire request.
type FireResult struct {
	OK      bool
	ID      string
	Message string
}

// ResolveResult reports the outcome of a manual resolve.
type ResolveResult struct {
	OK      bool
	Message string
}

// CloseAllResult reports the outcome of a close-all sweep.
type CloseAllResult struct {
	Closed int
	Errors []string
}

// CleanupResult reports the outcome of a stale-record sweep.
type CleanupResult struct {
	Removed int
}

// BulkResult reports the outcome of a bulk-generate run.
type BulkResult struct {
	Generated int
	Errors    []string
}

// Manager coordinates the alert lifecycle: it validates intents, dispatches
// them to the backend, persists records, and arms auto-resolve timers.
type Manager struct {
	log        zerolog.Logger
	store      store.Store
	dispatcher Dispatcher
	timers     Timers
}

// NewManager creates a lifecycle manager over the given collaborators.
func NewManager(st store.Store, dispatcher Dispatcher, timers Timers, log zerolog.Logger) *Manager {
	return &Manager{
		log:        log.With().Str("component", "manager").Logger(),
		store:      st,
		dispatcher: dispatcher,
		timers:     timers,
	}
}

// validateIntent checks required fields and the severity enum. The intent
// is rejected before any backend call.
func validateIntent(intent types.AlertIntent) error {
	if intent.Summary == "" || intent.Description == "" || intent.Severity == "" ||
		intent.Duration == "" || intent.Service == "" {
		return &ValidationError{Message: "All required fields must be filled"}
	}
	if !types.ValidSeverity(intent.Severity) {
		return &ValidationError{Message: "Invalid severity level"}
	}
	return nil
}

// trimIntent returns a copy of the intent with surrounding whitespace
// stripped from scalar fields and empty label/annotation pairs dropped.
func trimIntent(intent types.AlertIntent) types.AlertIntent {
	out := types.AlertIntent{
		Summary:     strings.TrimSpace(intent.Summary),
		Description: strings.TrimSpace(intent.Description),
		Severity:    strings.TrimSpace(intent.Severity),
		Duration:    strings.TrimSpace(intent.Duration),
		Service:     strings.TrimSpace(intent.Service),
	}
	for k, v := range intent.Labels {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if out.Labels == nil {
			out.Labels = make(map[string]string)
		}
		out.Labels[k] = v
	}
	for k, v := range intent.Annotations {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if out.Annotations == nil {
			out.Annotations = make(map[string]string)
		}
		out.Annotations[k] = v
	}
	return out
}

// Fire validates the intent, dispatches a firing alert, persists the record,
// and arms the auto-resolve timer. A failed dispatch creates no record and
// no timer.
func (m *Manager) Fire(ctx context.Context, intent types.AlertIntent) (FireResult, error) {
	intent = trimIntent(intent)
	if err := validateIntent(intent); err != nil {
		return FireResult{OK: false, Message: err.Error()}, err
	}

	rec := types.AlertRecord{
		ID:          uuid.NewString(),
		Summary:     intent.Summary,
		Description: intent.Description,
		Severity:    intent.Severity,
		Service:     intent.Service,
		Duration:    intent.Duration,
		Labels:      intent.Labels,
		Annotations: intent.Annotations,
		SentAt:      time.Now().UTC(),
		Status:      types.StatusActive,
	}

	if err := m.dispatcher.Fire(ctx, rec); err != nil {
		m.log.Error().
			Err(err).
			Str("summary", rec.Summary).
			Str("severity", rec.Severity).
			Msg("Failed to fire alert")
		return FireResult{OK: false, Message: err.Error()}, err
	}

	rec.AutoResolveScheduled = true
	if err := m.store.Create(rec); err != nil {
		// The backend already has the alert firing; without a local
		// record it cannot be tracked or auto-resolved, so the fire is
		// reported failed and no timer is armed.
		m.log.Error().
			Err(err).
			Str("alert_id", rec.ID).
			Msg("Alert fired but record could not be persisted")
		return FireResult{OK: false, Message: fmt.Sprintf("Alert sent but not tracked: %v", err)}, err
	}

	m.timers.Schedule(rec.ID, rec.Duration)

	m.log.Info().
		Str("alert_id", rec.ID).
		Str("summary", rec.Summary).
		Str("severity", rec.Severity).
		Str("service", rec.Service).
		Str("duration", rec.Duration).
		Msg("Alert fired")

	return FireResult{OK: true, ID: rec.ID, Message: "Alert sent successfully"}, nil
}

// ResolveOne resolves a single tracked alert by id and removes its record.
// The pending timer is cancelled; if the timer wins the race instead, its
// own check-before-act guard keeps the resolve single-shot.
func (m *Manager) ResolveOne(ctx context.Context, id string) ResolveResult {
	rec, err := m.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ResolveResult{OK: false, Message: fmt.Sprintf("Alert %s not found", id)}
		}
		return ResolveResult{OK: false, Message: fmt.Sprintf("Failed to load alert %s: %v", id, err)}
	}

	if err := m.dispatcher.Resolve(ctx, rec); err != nil {
		m.log.Error().
			Err(err).
			Str("alert_id", id).
			Msg("Failed to resolve alert")
		return ResolveResult{OK: false, Message: err.Error()}
	}

	if err := m.store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The auto-resolve timer got there first; the backend saw a
			// single resolve either way.
			return ResolveResult{OK: false, Message: fmt.Sprintf("Alert %s not found", id)}
		}
		m.log.Warn().
			Err(err).
			Str("alert_id", id).
			Msg("Resolved alert but failed to delete record")
	}
	m.timers.Cancel(id)

	m.log.Info().
		Str("alert_id", id).
		Str("summary", rec.Summary).
		Msg("Alert resolved manually")

	return ResolveResult{OK: true, Message: fmt.Sprintf("Alert %s resolved", rec.Summary)}
}

// CloseAll resolves every tracked alert in the current snapshot. Individual
// failures are collected; the sweep never stops early.
func (m *Manager) CloseAll(ctx context.Context) CloseAllResult {
	records, err := m.store.List()
	if err != nil {
		return CloseAllResult{Errors: []string{fmt.Sprintf("Failed to list alerts: %v", err)}}
	}

	result := CloseAllResult{Errors: []string{}}
	for _, rec := range records {
		if err := m.dispatcher.Resolve(ctx, rec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rec.Summary, err))
			continue
		}
		if err := m.store.Delete(rec.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rec.Summary, err))
			continue
		}
		m.timers.Cancel(rec.ID)
		result.Closed++
	}

	m.log.Info().
		Int("closed", result.Closed).
		Int("errors", len(result.Errors)).
		Msg("Close-all sweep finished")

	return result
}

// Cleanup removes tracked records whose storage age exceeds maxAgeDays.
// No backend calls are made: records that old are assumed already resolved
// or abandoned upstream.
func (m *Manager) Cleanup(maxAgeDays int) (CleanupResult, error) {
	removed, err := m.store.RemoveOlderThan(time.Duration(maxAgeDays) * 24 * time.Hour)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("cleanup sweep: %w", err)
	}

	m.log.Info().
		Int("removed", removed).
		Int("max_age_days", maxAgeDays).
		Msg("Cleanup sweep finished")

	return CleanupResult{Removed: removed}, nil
}

// AlertsDir returns the store location, reported by the status endpoint.
func (m *Manager) AlertsDir() string {
	return m.store.Dir()
}

// ListAlerts returns a snapshot of all tracked alerts.
func (m *Manager) ListAlerts() ([]types.AlertRecord, error) {
	return m.store.List()
}
