// Package engine implements the call navigation core: the state machine that
// walks a rep through a script graph, tracks the conversation path, handles
// objection detours, and derives call metadata by replaying the path.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/pitchline/pitchline/internal/logging"
	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
)

// Engine drives call sessions over a single immutable flow graph. The graph
// is shared read-only data; each session owns its own State, so one Engine
// can serve many concurrent calls without locking.
type Engine struct {
	graph   *flow.Graph
	hints   flow.HintFunc
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	opening string
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for navigation events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithHints sets the hint source used by metadata replay. Defaults to the
// node's explicit hints; pass flow.LegacyHints for graphs that still encode
// signals in node id conventions.
func WithHints(fn flow.HintFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.hints = fn
		}
	}
}

// WithOpeningNode pins the node new calls start at. Defaults to the first
// opening-type node in id order.
func WithOpeningNode(nodeID string) Option {
	return func(e *Engine) {
		e.opening = nodeID
	}
}

// New creates an engine over the given graph.
func New(graph *flow.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:  graph,
		hints:  flow.ExplicitHints,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the underlying flow graph.
func (e *Engine) Graph() *flow.Graph {
	return e.graph
}

// Start creates the initial state for a call, seeded at the opening node with
// a singleton path.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	openingID := e.opening
	if openingID == "" {
		openings := e.graph.Openings()
		if len(openings) == 0 {
			return nil, domain.ErrNoOpeningNode
		}
		openingID = openings[0]
	}

	node, ok := e.graph.Lookup(openingID)
	if !ok {
		return nil, domain.ErrNoOpeningNode
	}

	state := domain.NewState(sessionID, openingID)
	e.recompute(state)

	e.logger.Debug("call started", "session_id", sessionID, "node", openingID)
	e.emitNodeEnter(ctx, state, node)

	return state, nil
}

// Current resolves the node the call is positioned on.
func (e *Engine) Current(state *domain.State) (domain.Node, bool) {
	return e.graph.Lookup(state.CurrentNodeID)
}

// SetNotes replaces the operator-owned free-text notes.
func (e *Engine) SetNotes(state *domain.State, notes string) {
	state.Notes = notes
}

// SetOutcome sets the call outcome independently of path replay. Unknown
// outcome values are refused.
func (e *Engine) SetOutcome(state *domain.State, outcome domain.Outcome) bool {
	if !outcome.Valid() {
		return false
	}
	state.Outcome = outcome
	return true
}

// SetContact records operator-entered prospect details. These survive replay.
func (e *Engine) SetContact(state *domain.State, prospect, organization string) {
	if prospect != "" {
		state.Metadata.ProspectName = prospect
	}
	if organization != "" {
		state.Metadata.Organization = organization
	}
}

// AddPainPoint appends an operator-entered pain point.
func (e *Engine) AddPainPoint(state *domain.State, painPoint string) {
	if painPoint == "" {
		return
	}
	state.Metadata.PainPoints = append(state.Metadata.PainPoints, painPoint)
}

// AddObjection appends an operator-entered objection note.
func (e *Engine) AddObjection(state *domain.State, objection string) {
	if objection == "" {
		return
	}
	state.Metadata.Objections = append(state.Metadata.Objections, objection)
}

// SetAutomation records the manual automation notes field.
func (e *Engine) SetAutomation(state *domain.State, automation string) {
	state.Metadata.Automation = automation
}

// -- hook emission --

func (e *Engine) emitNodeEnter(ctx context.Context, state *domain.State, node domain.Node) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: eventBase(domain.EventNodeEnter, state.SessionID),
		NodeID:    node.ID,
		NodeType:  node.Type,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, state *domain.State, node domain.Node) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase: eventBase(domain.EventNodeLeave, state.SessionID),
		NodeID:    node.ID,
		NodeType:  node.Type,
	})
}

func (e *Engine) emitDetour(ctx context.Context, state *domain.State, objectionID, returnID string, returning bool) {
	if e.hooks.OnDetour == nil {
		return
	}
	e.hooks.OnDetour(ctx, &domain.DetourEvent{
		EventBase:   eventBase(domain.EventDetour, state.SessionID),
		ObjectionID: objectionID,
		ReturnID:    returnID,
		Returning:   returning,
	})
}

func (e *Engine) emitFlowReset(ctx context.Context, state *domain.State, node domain.Node) {
	if e.hooks.OnFlowReset == nil {
		return
	}
	e.hooks.OnFlowReset(ctx, &domain.NodeEvent{
		EventBase: eventBase(domain.EventFlowReset, state.SessionID),
		NodeID:    node.ID,
		NodeType:  node.Type,
	})
}

func eventBase(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now().UTC(),
		Type:      t,
		SessionID: sessionID,
	}
}
