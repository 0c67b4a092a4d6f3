package history

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// maxEntries is the number of values kept per field, most recent first.
const maxEntries = 10

// Fields holds recently used form values per field.
type Fields struct {
	Summaries    []string `json:"summaries"`
	Descriptions []string `json:"descriptions"`
	Services     []string `json:"services"`
	Severities   []string `json:"severities"`
	Durations    []string `json:"durations"`
}

// History persists recently used form values so the UI can offer them as
// suggestions. A missing or corrupt file yields an empty history.
type History struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewHistory creates a history backed by the given JSON file.
func NewHistory(path string, logger zerolog.Logger) *History {
	return &History{
		path:   path,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// Load reads the history file. Errors are tolerated: the caller always
// gets a usable (possibly empty) set of fields.
func (h *History) Load() Fields {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *History) load() Fields {
	var fields Fields
	data, err := os.ReadFile(h.path)
	if err != nil {
		return fields
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		h.logger.Warn().
			Err(err).
			Str("path", h.path).
			Msg("Ignoring unreadable form history")
		return Fields{}
	}
	return fields
}

// Record prepends the submitted values to their fields, de-duplicating and
// keeping only the most recent entries, then rewrites the file.
func (h *History) Record(summary, description, service, severity, duration string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fields := h.load()
	fields.Summaries = prepend(fields.Summaries, summary)
	fields.Descriptions = prepend(fields.Descriptions, description)
	fields.Services = prepend(fields.Services, service)
	fields.Severities = prepend(fields.Severities, severity)
	fields.Durations = prepend(fields.Durations, duration)

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to encode form history")
		return
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		h.logger.Warn().
			Err(err).
			Str("path", h.path).
			Msg("Failed to save form history")
	}
}

// prepend inserts value at the front of list unless already present,
// truncating to maxEntries.
func prepend(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	list = append([]string{value}, list...)
	if len(list) > maxEntries {
		list = list[:maxEntries]
	}
	return list
}
