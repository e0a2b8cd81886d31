package engine

import (
	"context"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
)

// Every operation in this file follows the same contract: it mutates the
// state in place and reports whether it applied. Invalid targets, underflow
// and missing detour pointers all degrade to a no-op that leaves the state
// untouched; a content defect must never take down a live call. Callers that
// care can branch on the return value; the UI typically just re-renders.

// NavigateTo moves the call to targetID, appending it to the path.
//
// Entering an objection node from a non-objection node saves the pre-move
// position as the detour return point; deeper objection-to-objection moves
// keep the original return point. Entering an opening node restarts the
// script: the path collapses to the opening alone and any detour pointer is
// dropped, so stale history cannot leak into metadata replay.
func (e *Engine) NavigateTo(ctx context.Context, state *domain.State, targetID string) bool {
	target, ok := e.graph.Lookup(targetID)
	if !ok {
		e.logger.Debug("navigation refused: unknown node", "session_id", state.SessionID, "target", targetID)
		return false
	}

	current, _ := e.graph.Lookup(state.CurrentNodeID)
	e.emitNodeLeave(ctx, state, current)

	if flow.IsOpening(target) {
		state.Path = []string{targetID}
		state.CurrentNodeID = targetID
		state.ReturnNodeID = ""
		e.recompute(state)
		e.logger.Debug("flow reset", "session_id", state.SessionID, "node", targetID)
		e.emitFlowReset(ctx, state, target)
		e.emitNodeEnter(ctx, state, target)
		return true
	}

	if flow.IsObjection(target) && !flow.IsObjection(current) {
		state.ReturnNodeID = state.CurrentNodeID
		e.emitDetour(ctx, state, targetID, state.ReturnNodeID, false)
	}

	state.Path = append(state.Path, targetID)
	state.CurrentNodeID = targetID
	e.recompute(state)
	e.emitNodeEnter(ctx, state, target)
	return true
}

// GoBack pops the last visit off the path. This is destructive: the popped
// visit is gone from history, unlike RewindTo which only repositions within
// it. No-op when the call is at its first beat.
func (e *Engine) GoBack(ctx context.Context, state *domain.State) bool {
	if len(state.Path) <= 1 {
		return false
	}

	if current, ok := e.graph.Lookup(state.CurrentNodeID); ok {
		e.emitNodeLeave(ctx, state, current)
	}

	state.Path = state.Path[:len(state.Path)-1]
	state.CurrentNodeID = state.Path[len(state.Path)-1]
	e.recompute(state)

	if node, ok := e.graph.Lookup(state.CurrentNodeID); ok {
		e.emitNodeEnter(ctx, state, node)
	}
	return true
}

// RewindTo truncates the path back to the first occurrence of targetID,
// inclusive, and repositions the call there. It never appends. No-op when the
// target is not in the path or is already the current position.
func (e *Engine) RewindTo(ctx context.Context, state *domain.State, targetID string) bool {
	idx := -1
	for i, id := range state.Path {
		if id == targetID {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(state.Path)-1 {
		return false
	}

	if current, ok := e.graph.Lookup(state.CurrentNodeID); ok {
		e.emitNodeLeave(ctx, state, current)
	}

	state.Path = state.Path[:idx+1]
	state.CurrentNodeID = targetID
	e.recompute(state)

	if node, ok := e.graph.Lookup(targetID); ok {
		e.emitNodeEnter(ctx, state, node)
	}
	return true
}

// ReturnToFlow exits an objection detour by appending the saved return point
// and clearing it. The return is a fresh visit, not a rewind: the objection
// beats stay in the path. No-op when no detour is active.
func (e *Engine) ReturnToFlow(ctx context.Context, state *domain.State) bool {
	if state.ReturnNodeID == "" {
		return false
	}

	returnID := state.ReturnNodeID
	if current, ok := e.graph.Lookup(state.CurrentNodeID); ok {
		e.emitNodeLeave(ctx, state, current)
	}

	state.Path = append(state.Path, returnID)
	state.CurrentNodeID = returnID
	state.ReturnNodeID = ""
	e.recompute(state)

	e.emitDetour(ctx, state, "", returnID, true)
	if node, ok := e.graph.Lookup(returnID); ok {
		e.emitNodeEnter(ctx, state, node)
	}
	return true
}

// RemoveFromPath strips every occurrence of nodeID from the path, used for
// correcting erroneous entries. No-op if removal would empty the path. When
// the current position is removed, the call falls back to the new last entry.
func (e *Engine) RemoveFromPath(ctx context.Context, state *domain.State, nodeID string) bool {
	kept := make([]string, 0, len(state.Path))
	for _, id := range state.Path {
		if id != nodeID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(state.Path) || len(kept) == 0 {
		return false
	}

	moved := state.CurrentNodeID == nodeID
	state.Path = kept
	state.CurrentNodeID = kept[len(kept)-1]
	e.recompute(state)

	if moved {
		if node, ok := e.graph.Lookup(state.CurrentNodeID); ok {
			e.emitNodeEnter(ctx, state, node)
		}
	}
	return true
}
