package engine

import (
	"strings"

	"github.com/pitchline/pitchline/pkg/domain"
)

// Search matches query case-insensitively against every node's title,
// script, context, key points and competitor hints, across the whole graph
// (not just the visited path). The matched ids are recorded on the state for
// the UI; an empty query clears them instead of matching everything.
func (e *Engine) Search(state *domain.State, query string) []domain.Node {
	query = strings.TrimSpace(query)
	if query == "" {
		state.SearchResults = nil
		return nil
	}

	needle := strings.ToLower(query)
	var matches []domain.Node

	for _, node := range e.graph.Nodes() {
		if matchesNode(node, e.hints(node), needle) {
			matches = append(matches, node)
		}
	}

	ids := make([]string, 0, len(matches))
	for _, n := range matches {
		ids = append(ids, n.ID)
	}
	state.SearchResults = ids

	return matches
}

func matchesNode(node domain.Node, hints domain.NodeHints, needle string) bool {
	var sb strings.Builder
	sb.WriteString(node.Title)
	sb.WriteByte(' ')
	sb.WriteString(node.Script)
	sb.WriteByte(' ')
	sb.WriteString(node.Context)
	for _, kp := range node.KeyPoints {
		sb.WriteByte(' ')
		sb.WriteString(kp)
	}
	for _, c := range hints.Competitors {
		sb.WriteByte(' ')
		sb.WriteString(c)
	}
	return strings.Contains(strings.ToLower(sb.String()), needle)
}
