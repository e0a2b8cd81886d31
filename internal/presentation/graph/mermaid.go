// Package graph renders the call flow as a Mermaid flowchart, optionally
// overlaying a live session's visited path.
package graph

import (
	"fmt"
	"strings"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
)

// GenerateMermaid produces a Mermaid flowchart from a list of nodes.
// It applies semantic styling:
//   - Opening: ((Circle))
//   - Objection: [/Parallelogram/]
//   - Success / End: [[Subroutine]]
//   - Default: [Rectangle]
//
// When state is non-nil, visited nodes and the current node are highlighted.
func GenerateMermaid(nodes []domain.Node, state *domain.State) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Type {
		case domain.NodeTypeOpening:
			opener, closer = "((", "))"
		case domain.NodeTypeObjection:
			opener, closer = "[/", "/]"
		case domain.NodeTypeSuccess, domain.NodeTypeEnd:
			opener, closer = "[[", "]]"
		}

		label := node.Title
		if label == "" {
			label = node.ID
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(label), closer))

		for _, resp := range node.Responses {
			safeTo := sanitizeMermaidID(resp.NextNode)
			arrow := fmt.Sprintf("-- \"%s\" -->", escapeMermaidLabel(resp.Label))
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if state != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range state.Path {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || visitedSet[safeID] || safeID == sanitizeMermaidID(state.CurrentNodeID) {
				continue
			}
			visitedSet[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
		}

		if state.CurrentNodeID != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(state.CurrentNodeID)))
		}
	}

	return sb.String()
}

// Render draws the full flow graph with an optional session overlay.
func Render(g *flow.Graph, state *domain.State) string {
	return GenerateMermaid(g.Nodes(), state)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
