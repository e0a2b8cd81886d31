package flow

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pitchline/pitchline/pkg/domain"
)

var fieldValidator = validator.New(validator.WithRequiredStructEnabled())

// checkFields runs tag-level validation on a single node (required fields,
// type enum, response targets present).
func checkFields(n domain.Node) error {
	if err := fieldValidator.Struct(n); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			v := verrs[0]
			return fmt.Errorf("field %s failed %q validation", v.Field(), v.Tag())
		}
		return err
	}
	return nil
}

// Finding is a single data-quality defect discovered by Lint. Findings do not
// prevent the graph from being served; malformed edges degrade to refused
// navigations at runtime.
type Finding struct {
	NodeID  string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.NodeID, f.Message)
}

// Lint crawls the graph and reports authoring defects: missing opening nodes,
// dangling response targets, and nodes unreachable from any opening.
//
// Dangling references are findings rather than errors because a large
// hand-maintained script graph must keep serving a live call even when one
// edge is broken; the supplying content layer is expected to run Lint at
// authoring time.
func Lint(g *Graph) []Finding {
	var findings []Finding

	openings := g.Openings()
	if len(openings) == 0 {
		findings = append(findings, Finding{NodeID: "-", Message: "no opening node: graph has no valid call entry point"})
	}

	// Dangling edges.
	for _, n := range g.Nodes() {
		for _, r := range n.Responses {
			if _, ok := g.Lookup(r.NextNode); !ok {
				findings = append(findings, Finding{
					NodeID:  n.ID,
					Message: fmt.Sprintf("response %q points to unknown node %q", r.Label, r.NextNode),
				})
			}
		}
	}

	// Reachability crawl from every opening.
	visited := make(map[string]bool)
	queue := append([]string(nil), openings...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		node, ok := g.Lookup(id)
		if !ok {
			continue
		}
		for _, r := range node.Responses {
			if !visited[r.NextNode] {
				queue = append(queue, r.NextNode)
			}
		}
	}

	var unreachable []string
	for _, n := range g.Nodes() {
		if !visited[n.ID] {
			unreachable = append(unreachable, n.ID)
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		findings = append(findings, Finding{NodeID: id, Message: "unreachable from any opening node"})
	}

	return findings
}
