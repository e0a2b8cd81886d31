package dsl

import "github.com/pitchline/pitchline/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Opening marks the node as an opening beat with the given title.
func (n *NodeBuilder) Opening(title string) *NodeBuilder {
	return n.typed(domain.NodeTypeOpening, title)
}

// Discovery marks the node as a discovery beat with the given title.
func (n *NodeBuilder) Discovery(title string) *NodeBuilder {
	return n.typed(domain.NodeTypeDiscovery, title)
}

// Pitch marks the node as a pitch beat with the given title.
func (n *NodeBuilder) Pitch(title string) *NodeBuilder {
	return n.typed(domain.NodeTypePitch, title)
}

// Objection marks the node as an objection handler with the given title.
func (n *NodeBuilder) Objection(title string) *NodeBuilder {
	return n.typed(domain.NodeTypeObjection, title)
}

// Close marks the node as a closing beat with the given title.
func (n *NodeBuilder) Close(title string) *NodeBuilder {
	return n.typed(domain.NodeTypeClose, title)
}

// Success marks the node as a terminal success beat with the given title.
func (n *NodeBuilder) Success(title string) *NodeBuilder {
	return n.typed(domain.NodeTypeSuccess, title)
}

// End marks the node as a terminal end beat with the given title.
func (n *NodeBuilder) End(title string) *NodeBuilder {
	return n.typed(domain.NodeTypeEnd, title)
}

func (n *NodeBuilder) typed(nodeType, title string) *NodeBuilder {
	n.node.Type = nodeType
	n.node.Title = title
	return n
}

// Script sets the verbatim text the rep reads aloud.
func (n *NodeBuilder) Script(script string) *NodeBuilder {
	n.node.Script = script
	return n
}

// Context sets the coaching context shown alongside the script.
func (n *NodeBuilder) Context(context string) *NodeBuilder {
	n.node.Context = context
	return n
}

// KeyPoints adds coaching bullet points.
func (n *NodeBuilder) KeyPoints(points ...string) *NodeBuilder {
	n.node.KeyPoints = append(n.node.KeyPoints, points...)
	return n
}

// Warnings adds things the rep should not say or do here.
func (n *NodeBuilder) Warnings(warnings ...string) *NodeBuilder {
	n.node.Warnings = append(n.node.Warnings, warnings...)
	return n
}

// ListenFor adds prospect signals worth catching at this beat.
func (n *NodeBuilder) ListenFor(signals ...string) *NodeBuilder {
	n.node.ListenFor = append(n.node.ListenFor, signals...)
	return n
}

// Respond adds a labeled outgoing edge to the target node.
func (n *NodeBuilder) Respond(label, target string) *NodeBuilder {
	n.node.Responses = append(n.node.Responses, domain.Response{
		Label:    label,
		NextNode: target,
	})
	return n
}

// RespondNote adds a labeled outgoing edge with a coaching aside.
func (n *NodeBuilder) RespondNote(label, target, note string) *NodeBuilder {
	n.node.Responses = append(n.node.Responses, domain.Response{
		Label:    label,
		NextNode: target,
		Note:     note,
	})
	return n
}

// EHR tags the node so visiting it records the named EHR system.
func (n *NodeBuilder) EHR(name string) *NodeBuilder {
	n.hints().EHR = name
	return n
}

// DMS tags the node so visiting it records the named document system.
func (n *NodeBuilder) DMS(name string) *NodeBuilder {
	n.hints().DMS = name
	return n
}

// Competitors tags the node so visiting it records the named competitors.
func (n *NodeBuilder) Competitors(names ...string) *NodeBuilder {
	h := n.hints()
	h.Competitors = append(h.Competitors, names...)
	return n
}

// Outcome tags the node as an outcome marker for metadata replay.
func (n *NodeBuilder) Outcome(outcome domain.Outcome) *NodeBuilder {
	n.hints().Outcome = outcome
	return n
}

func (n *NodeBuilder) hints() *domain.NodeHints {
	if n.node.Hints == nil {
		n.node.Hints = &domain.NodeHints{}
	}
	return n.node.Hints
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
