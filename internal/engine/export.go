package engine

import (
	"fmt"
	"strings"

	"github.com/pitchline/pitchline/pkg/domain"
)

// Summary renders the call sheet as human-readable text: contact info,
// detected environment, competitors, pain points, objections, outcome and
// free-text notes. Pure projection of state; calling it twice without an
// intervening mutation returns identical strings.
func (e *Engine) Summary(state *domain.State) string {
	var sb strings.Builder
	m := state.Metadata

	sb.WriteString("CALL SUMMARY\n")
	sb.WriteString("============\n\n")

	writeField(&sb, "Prospect", m.ProspectName)
	writeField(&sb, "Organization", m.Organization)
	writeField(&sb, "EHR", m.EHR)
	writeField(&sb, "DMS", m.DMS)
	if len(m.Competitors) > 0 {
		writeField(&sb, "Competitors", strings.Join(m.Competitors, ", "))
	}

	writeList(&sb, "Pain Points", m.PainPoints)
	writeList(&sb, "Objections", m.Objections)
	writeField(&sb, "Automation", m.Automation)
	writeField(&sb, "Outcome", outcomeLabel(state.Outcome))

	if state.Notes != "" {
		sb.WriteString("\nNotes:\n")
		sb.WriteString(state.Notes)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Scripts renders the traversed script verbatim, in visit order. A node
// visited twice appears twice; the transcript mirrors
// what was actually said, not the set of beats touched.
func (e *Engine) Scripts(state *domain.State) string {
	var sb strings.Builder

	for i, id := range state.Path {
		node, ok := e.graph.Lookup(id)
		if !ok {
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## ")
		sb.WriteString(node.Title)
		sb.WriteString("\n\n")
		sb.WriteString(node.Script)
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s: %s\n", label, value)
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "  - %s\n", item)
	}
}

func outcomeLabel(o domain.Outcome) string {
	switch o {
	case domain.OutcomeMeetingSet:
		return "Meeting set"
	case domain.OutcomeFollowUp:
		return "Follow up"
	case domain.OutcomeSendInfo:
		return "Send info"
	case domain.OutcomeNotInterested:
		return "Not interested"
	default:
		return ""
	}
}
