package domain

import "time"

// State is the live snapshot of one call session.
//
// It is owned by exactly one rep at a time; the engine mutates it in place
// and never leaves it inconsistent: Path is always non-empty and always ends
// with CurrentNodeID.
type State struct {
	// SessionID identifies the call across stores and streams.
	SessionID string `json:"session_id"`

	// CurrentNodeID is the node currently displayed. Always a valid id in
	// the graph the session was started against.
	CurrentNodeID string `json:"current_node_id"`

	// Path is the full visit log, in order. Revisits are recorded each time;
	// this is a log, not a set.
	Path []string `json:"path"`

	// ReturnNodeID is the saved re-entry point for an objection detour.
	// Empty when no detour is active.
	ReturnNodeID string `json:"return_node_id,omitempty"`

	// Metadata mixes operator-entered and replay-derived call attributes.
	Metadata CallMetadata `json:"metadata"`

	// Notes is free text, operator-owned, never auto-modified.
	Notes string `json:"notes,omitempty"`

	// Outcome is derived from path replay but also independently settable.
	Outcome Outcome `json:"outcome,omitempty"`

	// SearchResults holds the node ids matched by the last script search.
	SearchResults []string `json:"search_results,omitempty"`

	StartedAt time.Time `json:"started_at,omitzero"`
}

// NewState creates a clean call state positioned at an opening node.
func NewState(sessionID, openingNodeID string) *State {
	return &State{
		SessionID:     sessionID,
		CurrentNodeID: openingNodeID,
		Path:          []string{openingNodeID},
		StartedAt:     time.Now().UTC(),
	}
}

// Clone returns a deep copy, so stores can hand out snapshots without
// aliasing the live session.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Path = append([]string(nil), s.Path...)
	out.SearchResults = append([]string(nil), s.SearchResults...)
	out.Metadata = s.Metadata.Clone()
	return &out
}
