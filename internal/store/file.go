package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adam/adam/internal/types"
	"github.com/rs/zerolog"
)

// FileStore keeps one JSON file per alert under a single directory.
// A directory-wide mutex serializes writers so that two resolvers racing
// for the same id see exactly one success; the loser gets ErrNotFound.
type FileStore struct {
	dir    string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewFileStore creates the alerts directory if needed and returns a store over it.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating alerts directory %s: %w", dir, err)
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Dir returns the alerts directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create persists a new alert record.
func (s *FileStore) Create(rec types.AlertRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(rec)
}

// Get returns the record for id, or ErrNotFound.
func (s *FileStore) Get(id string) (types.AlertRecord, error) {
	return s.read(s.path(id))
}

// List returns a snapshot of all persisted records. Files that cannot be
// parsed are skipped with a warning rather than failing the whole listing.
func (s *FileStore) List() ([]types.AlertRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading alerts directory: %w", err)
	}

	records := make([]types.AlertRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("file", entry.Name()).
				Msg("Skipping unreadable alert file")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// UpdateStatus overwrites the status fields of an existing record.
func (s *FileStore) UpdateStatus(id string, status string, resolvedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(s.path(id))
	if err != nil {
		return err
	}
	rec.Status = status
	rec.ResolvedAt = resolvedAt
	return s.write(rec)
}

// Delete removes the persisted record for id.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting alert %s: %w", id, err)
	}
	return nil
}

// RemoveOlderThan deletes alert files whose modification time is older
// than maxAge and returns the number removed.
func (s *FileStore) RemoveOlderThan(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading alerts directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.Warn().
				Err(err).
				Str("file", entry.Name()).
				Msg("Failed to remove stale alert file")
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) read(path string) (types.AlertRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.AlertRecord{}, ErrNotFound
		}
		return types.AlertRecord{}, fmt.Errorf("reading alert file: %w", err)
	}
	var rec types.AlertRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.AlertRecord{}, fmt.Errorf("parsing alert file %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

// write replaces the record file atomically: the bytes land in a temp file
// first and are renamed over the target, so lock-free readers always see a
// complete record, never a truncated one. The temp name carries no .json
// suffix so List never picks it up.
func (s *FileStore) write(rec types.AlertRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding alert %s: %w", rec.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, rec.ID+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing alert %s: %w", rec.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing alert %s: %w", rec.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing alert %s: %w", rec.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(rec.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing alert %s: %w", rec.ID, err)
	}
	return nil
}
