package flow

import (
	"testing"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestLegacyHints_IDInference(t *testing.T) {
	tests := []struct {
		name string
		node domain.Node
		want domain.NodeHints
	}{
		{
			name: "EHR From ID",
			node: domain.Node{ID: "disc_ehr_epic", Type: domain.NodeTypeDiscovery},
			want: domain.NodeHints{EHR: "Epic"},
		},
		{
			name: "DMS And Competitor From Same ID",
			node: domain.Node{ID: "obj_comp_onbase", Type: domain.NodeTypeObjection},
			want: domain.NodeHints{DMS: "OnBase", Competitors: []string{"OnBase"}},
		},
		{
			name: "Gallery Competitor",
			node: domain.Node{ID: "disc_gallery_user", Type: domain.NodeTypeDiscovery},
			want: domain.NodeHints{Competitors: []string{"Gallery"}},
		},
		{
			name: "Success Node Implies Meeting",
			node: domain.Node{ID: "success_booked", Type: domain.NodeTypeSuccess},
			want: domain.NodeHints{Outcome: domain.OutcomeMeetingSet},
		},
		{
			name: "Not Interested End",
			node: domain.Node{ID: "end_not_interested", Type: domain.NodeTypeEnd},
			want: domain.NodeHints{Outcome: domain.OutcomeNotInterested},
		},
		{
			name: "Plain Node Yields Nothing",
			node: domain.Node{ID: "pitch_main", Type: domain.NodeTypePitch},
			want: domain.NodeHints{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyHints(tt.node))
		})
	}
}

func TestLegacyHints_ExplicitWins(t *testing.T) {
	node := domain.Node{
		ID:    "disc_ehr_epic",
		Type:  domain.NodeTypeDiscovery,
		Hints: &domain.NodeHints{EHR: "Cerner"},
	}
	got := LegacyHints(node)
	assert.Equal(t, "Cerner", got.EHR, "explicit hints must override id inference")
}

func TestExplicitHints(t *testing.T) {
	assert.Equal(t, domain.NodeHints{}, ExplicitHints(domain.Node{ID: "disc_ehr_epic"}),
		"explicit mode must ignore id conventions")

	node := domain.Node{Hints: &domain.NodeHints{DMS: "OnBase"}}
	assert.Equal(t, "OnBase", ExplicitHints(node).DMS)
}
