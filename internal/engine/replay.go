package engine

import (
	"strings"

	"github.com/pitchline/pitchline/pkg/domain"
)

// recompute rebuilds the derived metadata subset (EHR, DMS, competitors,
// outcome) by replaying the full path against node hints.
//
// Full replay instead of incremental update is deliberate: GoBack, RewindTo
// and RemoveFromPath shrink history non-monotonically, and per-field inverse
// operations would be easy to get wrong. Replaying from scratch is correct
// for any path shape, and paths are short (one phone call).
//
// Operator-entered fields (prospect, organization, pain points, objections,
// automation notes) are never touched here.
func (e *Engine) recompute(state *domain.State) {
	var (
		ehr         string
		dms         string
		competitors []string
		outcome     domain.Outcome
	)

	for _, id := range state.Path {
		node, ok := e.graph.Lookup(id)
		if !ok {
			// Stale path entry for a node that left the graph; skip rather
			// than fail, consistent with the no-op navigation policy.
			continue
		}
		h := e.hints(node)

		// Later visits override earlier ones for the same field.
		if h.EHR != "" {
			ehr = h.EHR
		}
		if h.DMS != "" {
			dms = h.DMS
		}
		for _, c := range h.Competitors {
			if !containsFold(competitors, c) {
				competitors = append(competitors, c)
			}
		}
		if h.Outcome != domain.OutcomeNone {
			outcome = h.Outcome
		}
	}

	state.Metadata.EHR = ehr
	state.Metadata.DMS = dms
	state.Metadata.Competitors = competitors

	// Outcome is only overwritten when the path actually carries a marker;
	// a manually set outcome survives navigation through unmarked nodes.
	if outcome != domain.OutcomeNone {
		state.Outcome = outcome
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
