package graph_test

import (
	"strings"
	"testing"

	"github.com/pitchline/pitchline/internal/presentation/graph"
	"github.com/pitchline/pitchline/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []domain.Node
		contains []string
	}{
		{
			name: "Opening Node Shape",
			nodes: []domain.Node{
				{ID: "opening_cold", Type: domain.NodeTypeOpening, Title: "Cold Open"},
			},
			contains: []string{
				`opening_cold(("Cold Open"))`,
			},
		},
		{
			name: "Objection Node Shape",
			nodes: []domain.Node{
				{ID: "obj_busy", Type: domain.NodeTypeObjection, Title: "Too Busy"},
			},
			contains: []string{
				`obj_busy[/"Too Busy"/]`,
			},
		},
		{
			name: "Terminal Node Shapes",
			nodes: []domain.Node{
				{ID: "success_meeting", Type: domain.NodeTypeSuccess, Title: "Meeting Set"},
				{ID: "end_no", Type: domain.NodeTypeEnd, Title: "Not Interested"},
			},
			contains: []string{
				`success_meeting[["Meeting Set"]]`,
				`end_no[["Not Interested"]]`,
			},
		},
		{
			name: "Untitled Node Falls Back To ID",
			nodes: []domain.Node{
				{ID: "disc_env", Type: domain.NodeTypeDiscovery},
			},
			contains: []string{
				`disc_env["disc_env"]`,
			},
		},
		{
			name: "ID Sanitization",
			nodes: []domain.Node{
				{ID: "hyphen-ated", Type: domain.NodeTypeDiscovery, Title: "hyphen-ated"},
			},
			contains: []string{
				`hyphen_ated["hyphen-ated"]`,
			},
		},
		{
			name: "Response Label Escaping",
			nodes: []domain.Node{
				{
					ID: "a", Type: domain.NodeTypeDiscovery, Title: "A",
					Responses: []domain.Response{
						{Label: `They say "maybe"`, NextNode: "b"},
					},
				},
			},
			contains: []string{
				`-- "They say 'maybe'" -->`,
				"a -- ",
				" --> b",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	nodes := []domain.Node{
		{ID: "opening_cold", Type: domain.NodeTypeOpening, Title: "Cold Open"},
		{ID: "disc_env", Type: domain.NodeTypeDiscovery, Title: "Environment"},
		{ID: "close_meeting", Type: domain.NodeTypeClose, Title: "Close"},
	}
	state := &domain.State{
		CurrentNodeID: "disc_env",
		Path:          []string{"opening_cold", "disc_env"},
	}

	got := graph.GenerateMermaid(nodes, state)

	if !strings.Contains(got, "class opening_cold visited;") {
		t.Errorf("expected visited class for opening_cold:\n%v", got)
	}
	if !strings.Contains(got, "class disc_env current;") {
		t.Errorf("expected current class for disc_env:\n%v", got)
	}
	if strings.Contains(got, "class disc_env visited;") {
		t.Errorf("current node must not also be styled visited:\n%v", got)
	}
	if strings.Contains(got, "class close_meeting") {
		t.Errorf("unvisited node must not be styled:\n%v", got)
	}
}

func TestGenerateMermaid_NoOverlayWithoutState(t *testing.T) {
	got := graph.GenerateMermaid([]domain.Node{{ID: "a", Type: domain.NodeTypeEnd}}, nil)
	if strings.Contains(got, "classDef") {
		t.Errorf("no overlay styles expected without a session:\n%v", got)
	}
}
