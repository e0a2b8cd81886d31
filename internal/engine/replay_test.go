package engine

import (
	"context"
	"testing"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_EHRDetection(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")

	require.True(t, e.NavigateTo(ctx, state, "disc_1"))
	assert.Equal(t, "Epic", state.Metadata.EHR)
}

func TestReplay_LastWriteWins(t *testing.T) {
	g, err := flow.New([]domain.Node{
		{ID: "opening", Type: domain.NodeTypeOpening, Responses: []domain.Response{
			{Label: "a", NextNode: "disc_epic"},
		}},
		{ID: "disc_epic", Type: domain.NodeTypeDiscovery, Hints: &domain.NodeHints{EHR: "Epic"},
			Responses: []domain.Response{{Label: "b", NextNode: "disc_cerner"}}},
		{ID: "disc_cerner", Type: domain.NodeTypeDiscovery, Hints: &domain.NodeHints{EHR: "Cerner"}},
	})
	require.NoError(t, err)

	e := New(g)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_epic")
	e.NavigateTo(ctx, state, "disc_cerner")

	assert.Equal(t, "Cerner", state.Metadata.EHR, "the later visit along the path wins")

	// Rewinding past the later visit restores the earlier detection.
	e.GoBack(ctx, state)
	assert.Equal(t, "Epic", state.Metadata.EHR)
}

func TestReplay_CompetitorAccumulation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_1")
	e.NavigateTo(ctx, state, "pitch_1")

	assert.Equal(t, []string{"OnBase", "Gallery"}, state.Metadata.Competitors,
		"order of first appearance")

	// Revisiting the node must not duplicate entries.
	e.NavigateTo(ctx, state, "disc_1")
	e.NavigateTo(ctx, state, "pitch_1")
	assert.Equal(t, []string{"OnBase", "Gallery"}, state.Metadata.Competitors)
}

func TestReplay_DerivedFieldsRebuiltFromScratch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_1")
	require.Equal(t, "Epic", state.Metadata.EHR)

	// A manual edit to a derived field does not survive the next navigation.
	state.Metadata.EHR = "Meditech"
	e.NavigateTo(ctx, state, "pitch_1")
	assert.Equal(t, "Epic", state.Metadata.EHR)

	// Removing the detecting visit clears the detection entirely.
	e.RemoveFromPath(ctx, state, "disc_1")
	assert.Empty(t, state.Metadata.EHR)
}

func TestReplay_OutcomeLastMarkerWins(t *testing.T) {
	g, err := flow.New([]domain.Node{
		{ID: "opening", Type: domain.NodeTypeOpening, Responses: []domain.Response{
			{Label: "a", NextNode: "end_soft"},
		}},
		{ID: "end_soft", Type: domain.NodeTypeEnd, Hints: &domain.NodeHints{Outcome: domain.OutcomeSendInfo},
			Responses: []domain.Response{{Label: "b", NextNode: "success"}}},
		{ID: "success", Type: domain.NodeTypeSuccess, Hints: &domain.NodeHints{Outcome: domain.OutcomeMeetingSet}},
	})
	require.NoError(t, err)

	e := New(g)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "end_soft")
	assert.Equal(t, domain.OutcomeSendInfo, state.Outcome)

	e.NavigateTo(ctx, state, "success")
	assert.Equal(t, domain.OutcomeMeetingSet, state.Outcome, "later marker overrides earlier")
}

func TestReplay_ManualOutcomeSurvivesUnmarkedPath(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")

	require.True(t, e.SetOutcome(state, domain.OutcomeFollowUp))
	e.NavigateTo(ctx, state, "disc_1")
	assert.Equal(t, domain.OutcomeFollowUp, state.Outcome,
		"replay only overwrites outcome when the path carries a marker")
}

func TestReplay_LegacyHints(t *testing.T) {
	g, err := flow.New([]domain.Node{
		{ID: "opening", Type: domain.NodeTypeOpening, Responses: []domain.Response{
			{Label: "a", NextNode: "disc_ehr_epic"},
		}},
		{ID: "disc_ehr_epic", Type: domain.NodeTypeDiscovery,
			Responses: []domain.Response{{Label: "b", NextNode: "obj_comp_gallery"}}},
		{ID: "obj_comp_gallery", Type: domain.NodeTypeObjection},
	})
	require.NoError(t, err)

	e := New(g, WithHints(flow.LegacyHints))
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_ehr_epic")
	e.NavigateTo(ctx, state, "obj_comp_gallery")

	assert.Equal(t, "Epic", state.Metadata.EHR)
	assert.Equal(t, []string{"Gallery"}, state.Metadata.Competitors)

	// The same graph without the shim detects nothing.
	e2 := New(g)
	state2, _ := e2.Start(ctx, "call-2")
	e2.NavigateTo(ctx, state2, "disc_ehr_epic")
	assert.Empty(t, state2.Metadata.EHR)
}

func TestReplay_SkipsStalePathEntries(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_1")

	// Simulate a path entry whose node left the graph between sessions.
	state.Path = append(state.Path, "deleted_node")
	state.CurrentNodeID = "deleted_node"
	e.recompute(state)

	assert.Equal(t, "Epic", state.Metadata.EHR, "stale entries are skipped, not fatal")
}
