// Package observability aggregates engine lifecycle events into call-level
// statistics without coupling the engine to any metrics backend.
package observability

import (
	"context"
	"sync"

	"github.com/pitchline/pitchline/pkg/domain"
)

// VisitStats is a point-in-time snapshot of aggregated navigation activity.
type VisitStats struct {
	// VisitsByNode counts node entries per node id.
	VisitsByNode map[string]int
	// VisitsByType counts node entries per node type.
	VisitsByType map[string]int
	// Detours counts objection detours taken.
	Detours int
	// Returns counts detours resolved via return-to-flow.
	Returns int
	// Resets counts opening re-entries that collapsed a path.
	Resets int
}

// VisitAggregator tallies lifecycle events across every session an engine
// serves. Safe for concurrent use.
type VisitAggregator struct {
	mu    sync.Mutex
	stats VisitStats
}

// NewVisitAggregator creates an empty aggregator.
func NewVisitAggregator() *VisitAggregator {
	return &VisitAggregator{
		stats: VisitStats{
			VisitsByNode: make(map[string]int),
			VisitsByType: make(map[string]int),
		},
	}
}

// Hooks returns the lifecycle hooks to register on the engine.
func (a *VisitAggregator) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.stats.VisitsByNode[e.NodeID]++
			a.stats.VisitsByType[e.NodeType]++
		},
		OnDetour: func(ctx context.Context, e *domain.DetourEvent) {
			a.mu.Lock()
			defer a.mu.Unlock()
			if e.Returning {
				a.stats.Returns++
			} else {
				a.stats.Detours++
			}
		},
		OnFlowReset: func(ctx context.Context, e *domain.NodeEvent) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.stats.Resets++
		},
	}
}

// Snapshot returns a copy of the current statistics.
func (a *VisitAggregator) Snapshot() VisitStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := VisitStats{
		VisitsByNode: make(map[string]int, len(a.stats.VisitsByNode)),
		VisitsByType: make(map[string]int, len(a.stats.VisitsByType)),
		Detours:      a.stats.Detours,
		Returns:      a.stats.Returns,
		Resets:       a.stats.Resets,
	}
	for k, v := range a.stats.VisitsByNode {
		out.VisitsByNode[k] = v
	}
	for k, v := range a.stats.VisitsByType {
		out.VisitsByType[k] = v
	}
	return out
}
