package store

import (
	"errors"
	"time"

	"github.com/adam/adam/internal/types"
)

// ErrNotFound is returned when an alert id has no persisted record.
var ErrNotFound = errors.New("alert not found")

// Store persists alert records. The file-backed implementation is the
// default; the interface exists so the coordinator never depends on the
// storage medium directly.
type Store interface {
	// Create persists a new record keyed by its id.
	Create(rec types.AlertRecord) error

	// Get returns the record for id, or ErrNotFound.
	Get(id string) (types.AlertRecord, error)

	// List returns a snapshot of all persisted records in unspecified order.
	// Every call re-reads the backing medium.
	List() ([]types.AlertRecord, error)

	// UpdateStatus overwrites the status fields of an existing record.
	// Returns ErrNotFound if the id is absent.
	UpdateStatus(id string, status string, resolvedAt *time.Time) error

	// Delete removes the persisted record. Returns ErrNotFound when the
	// record is already absent; callers treat that as benign.
	Delete(id string) error

	// RemoveOlderThan deletes records whose storage age exceeds maxAge
	// and returns the number removed. Age is the medium's own modification
	// time, not the record's sent_at.
	RemoveOlderThan(maxAge time.Duration) (int, error)

	// Dir returns the location of the backing medium, for reporting.
	Dir() string
}
