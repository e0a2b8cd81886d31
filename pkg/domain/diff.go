package domain

import "reflect"

// StateDiff represents the changes between two call states. It is serialized
// to JSON for partial updates on SSE clients.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentNodeID *string  `json:"current_node_id,omitempty"`
	ReturnNodeID  *string  `json:"return_node_id,omitempty"`
	Outcome       *Outcome `json:"outcome,omitempty"`
	Notes         *string  `json:"notes,omitempty"`

	// Metadata is sent whole when any field changed; the sheet is small and
	// derived fields can change together.
	Metadata *CallMetadata `json:"metadata,omitempty"`

	// Path carries either an append delta or, after a rewind/removal, the
	// rewritten path in full.
	Path *PathDelta `json:"path,omitempty"`
}

// PathDelta represents changes to the conversation path. Exactly one of
// Appended or Rewritten is set.
type PathDelta struct {
	Appended  []string `json:"appended,omitempty"`
	Rewritten []string `json:"rewritten,omitempty"`
}

// Diff calculates the difference between oldState and newState. If oldState
// is nil, the diff represents the entire newState (initial load). Returns nil
// when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	if oldState == nil || oldState.CurrentNodeID != newState.CurrentNodeID {
		diff.CurrentNodeID = &newState.CurrentNodeID
	}
	if oldState == nil && newState.ReturnNodeID != "" {
		diff.ReturnNodeID = &newState.ReturnNodeID
	} else if oldState != nil && oldState.ReturnNodeID != newState.ReturnNodeID {
		diff.ReturnNodeID = &newState.ReturnNodeID
	}
	if oldState == nil && newState.Outcome != OutcomeNone {
		diff.Outcome = &newState.Outcome
	} else if oldState != nil && oldState.Outcome != newState.Outcome {
		diff.Outcome = &newState.Outcome
	}
	if oldState == nil && newState.Notes != "" {
		diff.Notes = &newState.Notes
	} else if oldState != nil && oldState.Notes != newState.Notes {
		diff.Notes = &newState.Notes
	}

	if oldState == nil || !reflect.DeepEqual(oldState.Metadata, newState.Metadata) {
		meta := newState.Metadata.Clone()
		diff.Metadata = &meta
	}

	diff.Path = diffPath(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffPath distinguishes plain forward navigation (append) from rewinds and
// removals (rewrite). A rewrite ships the whole path because the client
// cannot reconstruct a truncation from a delta.
func diffPath(old, new *State) *PathDelta {
	if new == nil || len(new.Path) == 0 {
		return nil
	}

	if old == nil {
		return &PathDelta{Appended: append([]string(nil), new.Path...)}
	}

	oldLen, newLen := len(old.Path), len(new.Path)
	if newLen >= oldLen && reflect.DeepEqual(old.Path, new.Path[:oldLen]) {
		if newLen == oldLen {
			return nil
		}
		return &PathDelta{Appended: append([]string(nil), new.Path[oldLen:]...)}
	}

	return &PathDelta{Rewritten: append([]string(nil), new.Path...)}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentNodeID == nil &&
		d.ReturnNodeID == nil &&
		d.Outcome == nil &&
		d.Notes == nil &&
		d.Metadata == nil &&
		d.Path == nil
}
