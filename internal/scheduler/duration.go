package scheduler

import "strconv"

// DefaultDurationSeconds is used when a duration spec cannot be parsed.
// The permissive fallback is deliberate: a malformed duration fires a
// five-minute alert instead of failing the request.
const DefaultDurationSeconds = 300

// ParseDurationSeconds parses a trailing-unit duration spec ("10s", "5m",
// "1h") into seconds. Anything else falls back to DefaultDurationSeconds.
func ParseDurationSeconds(spec string) int {
	if len(spec) < 2 {
		return DefaultDurationSeconds
	}

	value, err := strconv.Atoi(spec[:len(spec)-1])
	if err != nil {
		return DefaultDurationSeconds
	}

	switch spec[len(spec)-1] {
	case 's':
		return value
	case 'm':
		return value * 60
	case 'h':
		return value * 3600
	}
	return DefaultDurationSeconds
}
