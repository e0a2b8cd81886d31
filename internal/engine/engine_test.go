package engine

import (
	"context"
	"testing"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/pitchline/pitchline/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGraph builds a small but representative cold-call flow: two openings,
// discovery with environment hints, a two-step objection chain, close,
// success and a not-interested end.
func testGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g, err := flow.New([]domain.Node{
		{
			ID: "opening_a", Type: domain.NodeTypeOpening, Title: "Cold Open A",
			Script: "Hi, this is Jordan from Pitchline.",
			Responses: []domain.Response{
				{Label: "Go ahead", NextNode: "disc_1"},
				{Label: "Who is this?", NextNode: "obj_1"},
			},
		},
		{
			ID: "opening_b", Type: domain.NodeTypeOpening, Title: "Cold Open B",
			Script: "Morning! Quick question for you.",
			Responses: []domain.Response{
				{Label: "Go ahead", NextNode: "disc_1"},
			},
		},
		{
			ID: "disc_1", Type: domain.NodeTypeDiscovery, Title: "Environment",
			Script: "What system does your team chart in today?",
			Hints:  &domain.NodeHints{EHR: "Epic"},
			Responses: []domain.Response{
				{Label: "Pitch it", NextNode: "pitch_1"},
				{Label: "Too busy", NextNode: "obj_1"},
			},
		},
		{
			ID: "pitch_1", Type: domain.NodeTypePitch, Title: "Pitch",
			Script: "Here's how we cut that workload in half.",
			Hints:  &domain.NodeHints{Competitors: []string{"OnBase", "Gallery"}},
			Responses: []domain.Response{
				{Label: "Interested", NextNode: "close_1"},
			},
		},
		{
			ID: "obj_1", Type: domain.NodeTypeObjection, Title: "Too Busy",
			Script: "Totally fair — thirty seconds and I'll let you go.",
			Responses: []domain.Response{
				{Label: "Still pushing back", NextNode: "obj_2"},
			},
		},
		{
			ID: "obj_2", Type: domain.NodeTypeObjection, Title: "Send An Email",
			Script: "Happy to, and one quick thing first.",
		},
		{
			ID: "close_1", Type: domain.NodeTypeClose, Title: "Close",
			Script: "Does Tuesday at 10 work?",
			Responses: []domain.Response{
				{Label: "Yes", NextNode: "success_1"},
				{Label: "No", NextNode: "end_no"},
			},
		},
		{
			ID: "success_1", Type: domain.NodeTypeSuccess, Title: "Booked",
			Script: "Great, sending the invite now.",
			Hints:  &domain.NodeHints{Outcome: domain.OutcomeMeetingSet},
		},
		{
			ID: "end_no", Type: domain.NodeTypeEnd, Title: "Wrap Up",
			Script: "No problem, thanks for your time.",
			Hints:  &domain.NodeHints{Outcome: domain.OutcomeNotInterested},
		},
	})
	require.NoError(t, err)
	return g
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(testGraph(t), opts...)
}

func TestStart(t *testing.T) {
	e := newTestEngine(t)
	state, err := e.Start(context.Background(), "call-1")
	require.NoError(t, err)

	assert.Equal(t, "opening_a", state.CurrentNodeID, "defaults to first opening in id order")
	assert.Equal(t, []string{"opening_a"}, state.Path)
	assert.Empty(t, state.ReturnNodeID)
}

func TestStart_PinnedOpening(t *testing.T) {
	e := newTestEngine(t, WithOpeningNode("opening_b"))
	state, err := e.Start(context.Background(), "call-1")
	require.NoError(t, err)
	assert.Equal(t, "opening_b", state.CurrentNodeID)
}

func TestStart_NoOpening(t *testing.T) {
	g, err := flow.New([]domain.Node{{ID: "end", Type: domain.NodeTypeEnd}})
	require.NoError(t, err)

	_, err = New(g).Start(context.Background(), "call-1")
	assert.ErrorIs(t, err, domain.ErrNoOpeningNode)
}

func TestSetOutcome(t *testing.T) {
	e := newTestEngine(t)
	state, _ := e.Start(context.Background(), "call-1")

	assert.True(t, e.SetOutcome(state, domain.OutcomeFollowUp))
	assert.Equal(t, domain.OutcomeFollowUp, state.Outcome)

	assert.False(t, e.SetOutcome(state, domain.Outcome("ghosted")))
	assert.Equal(t, domain.OutcomeFollowUp, state.Outcome, "invalid outcome must not overwrite")
}

func TestManualMetadata(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")

	e.SetContact(state, "Dana", "Mercy Health")
	e.AddPainPoint(state, "manual faxing")
	e.AddObjection(state, "budget freeze")
	e.SetAutomation(state, "auto-route referrals")
	e.SetNotes(state, "call back after Q3")

	// Manual fields survive replay.
	require.True(t, e.NavigateTo(ctx, state, "disc_1"))

	assert.Equal(t, "Dana", state.Metadata.ProspectName)
	assert.Equal(t, "Mercy Health", state.Metadata.Organization)
	assert.Equal(t, []string{"manual faxing"}, state.Metadata.PainPoints)
	assert.Equal(t, []string{"budget freeze"}, state.Metadata.Objections)
	assert.Equal(t, "auto-route referrals", state.Metadata.Automation)
	assert.Equal(t, "call back after Q3", state.Notes)
}

func TestLifecycleHooks(t *testing.T) {
	var entered, left []string
	var detours int
	var resets int

	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, ev *domain.NodeEvent) { entered = append(entered, ev.NodeID) },
		OnNodeLeave: func(_ context.Context, ev *domain.NodeEvent) { left = append(left, ev.NodeID) },
		OnDetour:    func(_ context.Context, _ *domain.DetourEvent) { detours++ },
		OnFlowReset: func(_ context.Context, _ *domain.NodeEvent) { resets++ },
	}

	e := newTestEngine(t, WithLifecycleHooks(hooks))
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")

	e.NavigateTo(ctx, state, "disc_1")
	e.NavigateTo(ctx, state, "obj_1")
	e.ReturnToFlow(ctx, state)
	e.NavigateTo(ctx, state, "opening_b")

	assert.Equal(t, []string{"opening_a", "disc_1", "obj_1", "disc_1", "opening_b"}, entered)
	assert.NotEmpty(t, left)
	assert.Equal(t, 2, detours, "one entry, one return")
	assert.Equal(t, 1, resets)
}
