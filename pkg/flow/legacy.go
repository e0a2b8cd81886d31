package flow

import (
	"strings"

	"github.com/pitchline/pitchline/pkg/domain"
)

// HintFunc derives replay hints for a node beyond its explicit Hints field.
// It exists so that id-naming conventions from older script graphs can keep
// working without baking string matching into the engine; new graphs should
// carry explicit hints and skip the shim entirely.
type HintFunc func(node domain.Node) domain.NodeHints

// Substring tables for graphs authored before explicit hints existed, where
// environment detection leaned on node id conventions ("disc_ehr_epic",
// "obj_comp_gallery", ...). Matching is case-insensitive on the node id.
type legacyEntry struct {
	substring string
	name      string
}

// Slices, not maps: lookup order must be deterministic so that replay output
// is stable across runs.
var (
	legacyEHR = []legacyEntry{
		{"epic", "Epic"},
		{"cerner", "Cerner"},
		{"meditech", "Meditech"},
		{"athena", "athenahealth"},
	}
	legacyDMS = []legacyEntry{
		{"onbase", "OnBase"},
		{"docuware", "DocuWare"},
	}
	legacyCompetitors = []legacyEntry{
		{"onbase", "OnBase"},
		{"gallery", "Gallery"},
	}
)

// LegacyHints is the migration shim for id-substring conventions. It augments
// a node's explicit hints with inferred ones; explicit values always win.
func LegacyHints(node domain.Node) domain.NodeHints {
	var hints domain.NodeHints
	if node.Hints != nil {
		hints = *node.Hints
	}

	id := strings.ToLower(node.ID)

	if hints.EHR == "" {
		for _, e := range legacyEHR {
			if strings.Contains(id, e.substring) {
				hints.EHR = e.name
				break
			}
		}
	}
	if hints.DMS == "" {
		for _, e := range legacyDMS {
			if strings.Contains(id, e.substring) {
				hints.DMS = e.name
				break
			}
		}
	}

	for _, e := range legacyCompetitors {
		if strings.Contains(id, e.substring) && !containsFold(hints.Competitors, e.name) {
			hints.Competitors = append(hints.Competitors, e.name)
		}
	}

	if hints.Outcome == domain.OutcomeNone {
		switch {
		case node.Type == domain.NodeTypeSuccess:
			hints.Outcome = domain.OutcomeMeetingSet
		case node.Type == domain.NodeTypeEnd && strings.Contains(id, "not_interested"):
			hints.Outcome = domain.OutcomeNotInterested
		}
	}

	return hints
}

// ExplicitHints reads only the node's declared Hints field. This is the
// default for graphs authored against the current schema.
func ExplicitHints(node domain.Node) domain.NodeHints {
	if node.Hints == nil {
		return domain.NodeHints{}
	}
	return *node.Hints
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
