// Package flow provides the read-only call flow graph: an id-to-node lookup
// over an externally supplied set of script nodes, plus the type predicates
// the navigation engine branches on.
//
// The graph is a directed multigraph. Cycles are expected and normal (a rep
// loops back into discovery after an objection), and there is no single root;
// opening-type nodes serve as entry and reset targets.
package flow

import (
	"fmt"
	"sort"

	"github.com/pitchline/pitchline/pkg/domain"
)

// Graph is an immutable lookup from node id to Node. Safe for concurrent
// readers; it is never mutated after construction.
type Graph struct {
	nodes map[string]domain.Node
	order []string
}

// New builds a graph from the given nodes. Duplicate ids and field-level
// defects are construction errors; dangling response targets are not. Those
// are a data-quality concern surfaced by Lint, and the engine simply refuses
// to navigate to them.
func New(nodes []domain.Node) (*Graph, error) {
	g := &Graph{nodes: make(map[string]domain.Node, len(nodes))}
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node missing id")
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("duplicate node id: %s", n.ID)
		}
		if err := checkFields(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	sort.Strings(g.order)
	return g, nil
}

// Lookup retrieves a node by id. Absence is a normal, expected condition the
// engine checks before every navigation.
func (g *Graph) Lookup(id string) (domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in deterministic (id-sorted) order.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Openings returns the ids of all opening-type nodes, sorted.
func (g *Graph) Openings() []string {
	var out []string
	for _, id := range g.order {
		if IsOpening(g.nodes[id]) {
			out = append(out, id)
		}
	}
	return out
}

// IsOpening reports whether the node restarts the script when entered.
func IsOpening(n domain.Node) bool {
	return n.Type == domain.NodeTypeOpening
}

// IsObjection reports whether the node is an objection-handling detour.
func IsObjection(n domain.Node) bool {
	return n.Type == domain.NodeTypeObjection
}
