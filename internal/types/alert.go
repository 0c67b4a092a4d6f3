package types

import "time"

// Alert severities accepted by the form and the bulk generator.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert record statuses.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// ValidSeverity reports whether s is one of the accepted severity levels.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// AlertIntent is a request to fire a new alert.
type AlertIntent struct {
	Summary     string
	Description string
	Severity    string
	Duration    string // raw duration spec, e.g. "10s", "5m", "1h"
	Service     string
	Labels      map[string]string
	Annotations map[string]string
}

// AlertRecord is a tracked alert as persisted in the store.
type AlertRecord struct {
	ID                   string            `json:"id"`
	Summary              string            `json:"summary"`
	Description          string            `json:"description"`
	Severity             string            `json:"severity"`
	Service              string            `json:"service"`
	Duration             string            `json:"duration"`
	Labels               map[string]string `json:"labels,omitempty"`
	Annotations          map[string]string `json:"annotations,omitempty"`
	SentAt               time.Time         `json:"sent_at"`
	Status               string            `json:"status"`
	ResolvedAt           *time.Time        `json:"resolved_at,omitempty"`
	AutoResolveScheduled bool              `json:"auto_resolve_scheduled"`
}
