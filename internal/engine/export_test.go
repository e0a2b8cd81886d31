package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_1")
	e.NavigateTo(ctx, state, "pitch_1")

	e.SetContact(state, "Dana", "Mercy Health")
	e.AddPainPoint(state, "manual faxing")
	e.AddObjection(state, "budget freeze")
	e.SetNotes(state, "call back after Q3")
	e.SetOutcome(state, domain.OutcomeFollowUp)

	summary := e.Summary(state)

	assert.Contains(t, summary, "Prospect: Dana")
	assert.Contains(t, summary, "Organization: Mercy Health")
	assert.Contains(t, summary, "EHR: Epic")
	assert.Contains(t, summary, "Competitors: OnBase, Gallery")
	assert.Contains(t, summary, "- manual faxing")
	assert.Contains(t, summary, "- budget freeze")
	assert.Contains(t, summary, "Outcome: Follow up")
	assert.Contains(t, summary, "call back after Q3")
}

func TestSummary_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_1")
	e.SetNotes(state, "short call")

	first := e.Summary(state)
	second := e.Summary(state)
	assert.Equal(t, first, second, "no mutation between calls, identical output")
}

func TestSummary_OmitsEmptyFields(t *testing.T) {
	e := newTestEngine(t)
	state, _ := e.Start(context.Background(), "call-1")

	summary := e.Summary(state)
	assert.NotContains(t, summary, "Prospect:")
	assert.NotContains(t, summary, "Competitors:")
	assert.NotContains(t, summary, "Notes:")
}

func TestScripts_RepeatsRevisits(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_1")
	e.NavigateTo(ctx, state, "pitch_1")
	e.NavigateTo(ctx, state, "disc_1")

	scripts := e.Scripts(state)

	require.Equal(t, 2, strings.Count(scripts, "What system does your team chart in today?"),
		"a node visited twice appears twice")

	// Visit order is preserved.
	first := strings.Index(scripts, "Environment")
	pitch := strings.Index(scripts, "Pitch")
	assert.Less(t, first, pitch)
}

func TestScripts_SkipsStaleEntries(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	state, _ := e.Start(ctx, "call-1")
	e.NavigateTo(ctx, state, "disc_1")
	state.Path = append(state.Path, "deleted_node")

	scripts := e.Scripts(state)
	assert.NotContains(t, scripts, "deleted_node")
	assert.Contains(t, scripts, "Cold Open A")
}
