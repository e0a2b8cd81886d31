package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventDetour    EventType = "detour"
	EventFlowReset EventType = "flow_reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entry to or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID   string `json:"node_id"`
	NodeType string `json:"node_type"`
}

// DetourEvent fires when a call enters an objection detour or returns from one.
type DetourEvent struct {
	EventBase
	ObjectionID string `json:"objection_id"`
	ReturnID    string `json:"return_id"`
	Returning   bool   `json:"returning"`
}

// LifecycleHooks defines callbacks for engine observability. Nil hooks are
// skipped; hooks run synchronously on the navigating goroutine and must not
// mutate the state they observe.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnDetour    func(context.Context, *DetourEvent)
	OnFlowReset func(context.Context, *NodeEvent)
}
