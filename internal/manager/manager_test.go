package manager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adam/adam/internal/store"
	"github.com/adam/adam/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mu         sync.Mutex
	fired      []types.AlertRecord
	resolved   []types.AlertRecord
	fireErr    error
	resolveErr error
	// failEveryOther makes every second fire fail, for bulk tests.
	failEveryOther bool
}

func (f *fakeDispatcher) Fire(_ context.Context, rec types.AlertRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEveryOther && len(f.fired)%2 == 1 {
		f.fired = append(f.fired, rec)
		return errors.New("backend unavailable")
	}
	f.fired = append(f.fired, rec)
	return f.fireErr
}

func (f *fakeDispatcher) Resolve(_ context.Context, rec types.AlertRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, rec)
	return f.resolveErr
}

type fakeTimers struct {
	mu        sync.Mutex
	scheduled map[string]string
	cancelled []string
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{scheduled: make(map[string]string)}
}

func (f *fakeTimers) Schedule(id, durationSpec string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[id] = durationSpec
}

func (f *fakeTimers) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
}

func newTestManager(t *testing.T) (*Manager, *store.FileStore, *fakeDispatcher, *fakeTimers) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	dispatcher := &fakeDispatcher{}
	timers := newFakeTimers()
	return NewManager(st, dispatcher, timers, zerolog.Nop()), st, dispatcher, timers
}

func validIntent() types.AlertIntent {
	return types.AlertIntent{
		Summary:     "High Latency",
		Description: "p99 latency above threshold",
		Severity:    types.SeverityWarning,
		Duration:    "5m",
		Service:     "checkout",
		Labels:      map[string]string{"team": "payments"},
	}
}

func TestFireSuccess(t *testing.T) {
	m, st, dispatcher, timers := newTestManager(t)

	result, err := m.Fire(context.Background(), validIntent())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Alert sent successfully", result.Message)

	rec, err := st.Get(result.ID)
	require.NoError(t, err)
	assert.Equal(t, "High Latency", rec.Summary)
	assert.Equal(t, types.StatusActive, rec.Status)
	assert.True(t, rec.AutoResolveScheduled)

	require.Len(t, dispatcher.fired, 1)
	assert.Equal(t, "5m", timers.scheduled[result.ID])
}

func TestFireTrimsInput(t *testing.T) {
	m, st, _, _ := newTestManager(t)

	intent := validIntent()
	intent.Summary = "  High Latency  "
	intent.Labels = map[string]string{" team ": " payments ", "empty": "  "}

	result, err := m.Fire(context.Background(), intent)
	require.NoError(t, err)

	rec, err := st.Get(result.ID)
	require.NoError(t, err)
	assert.Equal(t, "High Latency", rec.Summary)
	assert.Equal(t, map[string]string{"team": "payments"}, rec.Labels)
}

func TestFireRejectsMissingFields(t *testing.T) {
	m, st, dispatcher, timers := newTestManager(t)

	intent := validIntent()
	intent.Service = "   "

	result, err := m.Fire(context.Background(), intent)
	require.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.False(t, result.OK)
	assert.Equal(t, "All required fields must be filled", result.Message)

	// No dispatch, no record, no timer.
	assert.Empty(t, dispatcher.fired)
	records, _ := st.List()
	assert.Empty(t, records)
	assert.Empty(t, timers.scheduled)
}

func TestFireRejectsUnknownSeverity(t *testing.T) {
	m, st, dispatcher, _ := newTestManager(t)

	intent := validIntent()
	intent.Severity = "urgent"

	result, err := m.Fire(context.Background(), intent)
	require.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.False(t, result.OK)
	assert.Equal(t, "Invalid severity level", result.Message)
	assert.Empty(t, dispatcher.fired)
	records, _ := st.List()
	assert.Empty(t, records)
}

func TestFireDispatchFailureCreatesNothing(t *testing.T) {
	m, st, dispatcher, timers := newTestManager(t)
	dispatcher.fireErr = errors.New("backend unavailable")

	result, err := m.Fire(context.Background(), validIntent())
	require.Error(t, err)
	assert.False(t, result.OK)

	records, _ := st.List()
	assert.Empty(t, records)
	assert.Empty(t, timers.scheduled)
}

// failingStore rejects every write, standing in for an unwritable alerts
// directory.
type failingStore struct{}

func (failingStore) Create(types.AlertRecord) error { return errors.New("disk full") }

func (failingStore) Get(string) (types.AlertRecord, error) {
	return types.AlertRecord{}, store.ErrNotFound
}
func (failingStore) List() ([]types.AlertRecord, error) { return nil, nil }

func (failingStore) UpdateStatus(string, string, *time.Time) error {
	return errors.New("disk full")
}
func (failingStore) Delete(string) error { return store.ErrNotFound }

func (failingStore) RemoveOlderThan(time.Duration) (int, error) { return 0, nil }

func (failingStore) Dir() string { return "" }

func TestFirePersistFailureAfterDispatch(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	timers := newFakeTimers()
	m := NewManager(failingStore{}, dispatcher, timers, zerolog.Nop())

	result, err := m.Fire(context.Background(), validIntent())
	require.Error(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "Alert sent but not tracked")

	// The alert did reach the backend, but without a record there is no
	// auto-resolve timer to arm.
	assert.Len(t, dispatcher.fired, 1)
	assert.Empty(t, timers.scheduled)
}

func TestResolveOne(t *testing.T) {
	m, st, dispatcher, timers := newTestManager(t)

	fired, err := m.Fire(context.Background(), validIntent())
	require.NoError(t, err)

	result := m.ResolveOne(context.Background(), fired.ID)
	assert.True(t, result.OK)

	_, err = st.Get(fired.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.Len(t, dispatcher.resolved, 1)
	assert.Contains(t, timers.cancelled, fired.ID)
}

func TestResolveOneNotFound(t *testing.T) {
	m, _, dispatcher, _ := newTestManager(t)

	result := m.ResolveOne(context.Background(), "missing")
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "not found")
	assert.Empty(t, dispatcher.resolved)
}

func TestResolveOneDispatchFailureKeepsRecord(t *testing.T) {
	m, st, dispatcher, _ := newTestManager(t)

	fired, err := m.Fire(context.Background(), validIntent())
	require.NoError(t, err)

	dispatcher.resolveErr = errors.New("backend unavailable")
	result := m.ResolveOne(context.Background(), fired.ID)
	assert.False(t, result.OK)

	// Record is still tracked for a later attempt.
	_, err = st.Get(fired.ID)
	assert.NoError(t, err)
}

func TestCloseAll(t *testing.T) {
	m, st, dispatcher, _ := newTestManager(t)

	for i := 0; i < 4; i++ {
		_, err := m.Fire(context.Background(), validIntent())
		require.NoError(t, err)
	}

	result := m.CloseAll(context.Background())
	assert.Equal(t, 4, result.Closed)
	assert.Empty(t, result.Errors)
	assert.Len(t, dispatcher.resolved, 4)

	records, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCloseAllContinuesPastFailures(t *testing.T) {
	m, st, dispatcher, _ := newTestManager(t)

	for i := 0; i < 3; i++ {
		_, err := m.Fire(context.Background(), validIntent())
		require.NoError(t, err)
	}

	dispatcher.resolveErr = errors.New("backend unavailable")
	result := m.CloseAll(context.Background())
	assert.Equal(t, 0, result.Closed)
	assert.Len(t, result.Errors, 3)

	// Nothing was deleted: all three remain tracked.
	records, err := st.List()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestCleanup(t *testing.T) {
	m, st, _, _ := newTestManager(t)

	_, err := m.Fire(context.Background(), validIntent())
	require.NoError(t, err)

	// Fresh records are untouched.
	result, err := m.Cleanup(7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Removed)

	records, err := st.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestBulkGenerate(t *testing.T) {
	m, st, dispatcher, timers := newTestManager(t)

	result := m.BulkGenerate(context.Background(), 5, "5m")
	assert.Equal(t, 5, result.Generated)
	assert.Empty(t, result.Errors)
	assert.Len(t, dispatcher.fired, 5)
	assert.Len(t, timers.scheduled, 5)

	records, err := st.List()
	require.NoError(t, err)
	assert.Len(t, records, 5)
	for _, rec := range records {
		assert.True(t, types.ValidSeverity(rec.Severity))
		assert.NotEmpty(t, rec.Summary)
		assert.NotEmpty(t, rec.Service)
		assert.Equal(t, "5m", rec.Duration)
		assert.Equal(t, "true", rec.Labels["generated"])
	}
}

func TestBulkGenerateContinuesPastFailures(t *testing.T) {
	m, st, dispatcher, _ := newTestManager(t)
	dispatcher.failEveryOther = true

	result := m.BulkGenerate(context.Background(), 6, "5m")

	// Every fire was attempted; only successful dispatches count.
	assert.Len(t, dispatcher.fired, 6)
	assert.Equal(t, 3, result.Generated)
	assert.Len(t, result.Errors, 3)

	records, err := st.List()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestBulkGenerateDefaults(t *testing.T) {
	m, _, dispatcher, _ := newTestManager(t)

	result := m.BulkGenerate(context.Background(), 0, "")
	assert.Equal(t, 10, result.Generated)
	require.Len(t, dispatcher.fired, 10)
	assert.Equal(t, "5m", dispatcher.fired[0].Duration)
}
