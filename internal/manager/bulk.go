package manager

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/adam/adam/internal/types"
)

// Word pools for synthetic alerts. Summaries are adjective+noun pairs so
// generated alertnames stay distinct enough to be told apart in the backend.
var (
	bulkAdjectives = []string{
		"Degraded", "Elevated", "Intermittent", "Saturated", "Stale",
		"Unstable", "Excessive", "Delayed", "Failing", "Spiking",
	}
	bulkNouns = []string{
		"Latency", "Error Rate", "Queue Depth", "Disk Usage", "Memory Pressure",
		"Connection Pool", "Replication Lag", "Throughput", "Cache Hit Rate", "Heartbeat",
	}
	bulkServices = []string{
		"api-gateway", "billing", "checkout", "inventory", "notifications",
		"payments", "search", "user-profile",
	}
	bulkSeverities = []string{
		types.SeverityInfo, types.SeverityWarning, types.SeverityCritical,
	}
)

// randomIntent synthesizes a pseudo-random alert intent from the word pools.
func randomIntent(durationSpec string) types.AlertIntent {
	summary := bulkAdjectives[rand.Intn(len(bulkAdjectives))] + " " + bulkNouns[rand.Intn(len(bulkNouns))]
	service := bulkServices[rand.Intn(len(bulkServices))]
	return types.AlertIntent{
		Summary:     summary,
		Description: fmt.Sprintf("Synthetic alert: %s observed on %s", summary, service),
		Severity:    bulkSeverities[rand.Intn(len(bulkSeverities))],
		Duration:    durationSpec,
		Service:     service,
		Labels: map[string]string{
			"generated": "true",
		},
	}
}

// BulkGenerate fires count synthetic alerts through the normal fire path.
// Individual failures are collected and the loop always runs to completion;
// Generated counts only successful dispatches.
func (m *Manager) BulkGenerate(ctx context.Context, count int, durationSpec string) BulkResult {
	if count <= 0 {
		count = 10
	}
	if durationSpec == "" {
		durationSpec = "5m"
	}

	result := BulkResult{Errors: []string{}}
	for i := 0; i < count; i++ {
		intent := randomIntent(durationSpec)
		if _, err := m.Fire(ctx, intent); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", intent.Summary, err))
			continue
		}
		result.Generated++
	}

	m.log.Info().
		Int("requested", count).
		Int("generated", result.Generated).
		Int("errors", len(result.Errors)).
		Str("duration", durationSpec).
		Msg("Bulk generation finished")

	return result
}
