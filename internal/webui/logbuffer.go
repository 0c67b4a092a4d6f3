package webui

import (
	"strings"
	"sync"
	"time"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Raw       string    `json:"raw"`
}

// LogBuffer is a thread-safe ring buffer for log entries
type LogBuffer struct {
	entries []LogEntry
	size    int
	head    int
	count   int
	mu      sync.RWMutex
}

// NewLogBuffer creates a new log buffer with the specified capacity
func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{
		entries: make([]LogEntry, size),
		size:    size,
	}
}

// Write implements io.Writer for capturing zerolog output
func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	raw := string(p)
	lb.entries[lb.head] = LogEntry{
		Timestamp: time.Now(),
		Level:     parseLevel(raw),
		Message:   parseMessage(raw),
		Raw:       raw,
	}
	lb.head = (lb.head + 1) % lb.size
	if lb.count < lb.size {
		lb.count++
	}

	return len(p), nil
}

// GetEntries returns all log entries in chronological order
func (lb *LogBuffer) GetEntries() []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	result := make([]LogEntry, lb.count)
	if lb.count == 0 {
		return result
	}

	start := 0
	if lb.count == lb.size {
		start = lb.head
	}
	for i := 0; i < lb.count; i++ {
		result[i] = lb.entries[(start+i)%lb.size]
	}
	return result
}

// GetRecentEntries returns the most recent n entries
func (lb *LogBuffer) GetRecentEntries(n int) []LogEntry {
	entries := lb.GetEntries()
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// parseLevel extracts the log level from a zerolog JSON line
func parseLevel(raw string) string {
	for _, level := range []string{"debug", "info", "warn", "error", "fatal"} {
		if strings.Contains(raw, `"level":"`+level+`"`) {
			return level
		}
	}
	return "info"
}

// parseMessage extracts the message from a zerolog JSON line
func parseMessage(raw string) string {
	start := strings.Index(raw, `"message":"`)
	if start == -1 {
		return strings.TrimSpace(raw)
	}
	start += len(`"message":"`)
	end := start
	for end < len(raw) && raw[end] != '"' {
		if raw[end] == '\\' && end+1 < len(raw) {
			end += 2
			continue
		}
		end++
	}
	return raw[start:end]
}
