package domain

// NodeType constants classify a script beat. The type drives UI treatment and
// the engine's detour/reset behavior.
const (
	// NodeTypeOpening starts (or restarts) a call. Navigating to an opening
	// node resets the conversation path.
	NodeTypeOpening = "opening"
	// NodeTypeDiscovery probes the prospect's environment and pain points.
	NodeTypeDiscovery = "discovery"
	// NodeTypePitch presents the product.
	NodeTypePitch = "pitch"
	// NodeTypeObjection handles pushback. Entering an objection node from a
	// non-objection node saves a return point for ReturnToFlow.
	NodeTypeObjection = "objection"
	// NodeTypeClose asks for the meeting.
	NodeTypeClose = "close"
	// NodeTypeSuccess is a terminal beat for a won conversation.
	NodeTypeSuccess = "success"
	// NodeTypeEnd is a terminal beat for a finished conversation.
	NodeTypeEnd = "end"
)

// Response is a labeled, directed edge out of a node: one thing the prospect
// might say, and where the script goes next.
type Response struct {
	Label    string `json:"label" yaml:"label" validate:"required"`
	NextNode string `json:"next_node" yaml:"next_node" validate:"required"`
	// Note is an optional coaching aside shown next to the choice.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// NodeHints carries structured signals consumed only by metadata replay.
// They have no effect on navigation.
type NodeHints struct {
	EHR         string   `json:"ehr,omitempty" yaml:"ehr,omitempty" mapstructure:"ehr"`
	DMS         string   `json:"dms,omitempty" yaml:"dms,omitempty" mapstructure:"dms"`
	Competitors []string `json:"competitors,omitempty" yaml:"competitors,omitempty" mapstructure:"competitors"`
	Outcome     Outcome  `json:"outcome,omitempty" yaml:"outcome,omitempty" mapstructure:"outcome"`
}

// IsZero reports whether the hints carry no signal at all.
func (h NodeHints) IsZero() bool {
	return h.EHR == "" && h.DMS == "" && len(h.Competitors) == 0 && h.Outcome == ""
}

// Node is one script beat in the call flow graph.
type Node struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Type string `json:"type" yaml:"type" validate:"required,oneof=opening discovery pitch objection close success end"`

	// Title is the short label shown in breadcrumbs and search results.
	Title string `json:"title" yaml:"title"`
	// Script is the verbatim text a rep may read aloud.
	Script string `json:"script" yaml:"script"`

	// Coaching annotations. Informational only, no control-flow effect.
	Context   string   `json:"context,omitempty" yaml:"context,omitempty"`
	KeyPoints []string `json:"key_points,omitempty" yaml:"key_points,omitempty"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	ListenFor []string `json:"listen_for,omitempty" yaml:"listen_for,omitempty"`

	// Responses are the outgoing edges, in display order. A terminal node
	// simply has none.
	Responses []Response `json:"responses,omitempty" yaml:"responses,omitempty" validate:"dive"`

	// Hints feed metadata replay (EHR/DMS/competitor/outcome detection).
	Hints *NodeHints `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Terminal reports whether the node has no outgoing responses.
func (n Node) Terminal() bool {
	return len(n.Responses) == 0
}
