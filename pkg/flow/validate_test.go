package flow

import (
	"testing"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint_CleanGraph(t *testing.T) {
	g, err := New(testNodes())
	require.NoError(t, err)
	assert.Empty(t, Lint(g))
}

func TestLint_DanglingEdge(t *testing.T) {
	g, err := New([]domain.Node{
		{
			ID:   "opening_cold",
			Type: domain.NodeTypeOpening,
			Responses: []domain.Response{
				{Label: "go", NextNode: "missing_node"},
			},
		},
	})
	require.NoError(t, err, "a dangling edge must not fail construction")

	findings := Lint(g)
	require.Len(t, findings, 1)
	assert.Equal(t, "opening_cold", findings[0].NodeID)
	assert.Contains(t, findings[0].Message, "missing_node")
}

func TestLint_NoOpening(t *testing.T) {
	g, err := New([]domain.Node{
		{ID: "end", Type: domain.NodeTypeEnd},
	})
	require.NoError(t, err)

	findings := Lint(g)
	require.NotEmpty(t, findings)
	assert.Contains(t, findings[0].Message, "no opening node")
}

func TestLint_Unreachable(t *testing.T) {
	g, err := New([]domain.Node{
		{
			ID:   "opening_cold",
			Type: domain.NodeTypeOpening,
			Responses: []domain.Response{
				{Label: "go", NextNode: "end"},
			},
		},
		{ID: "end", Type: domain.NodeTypeEnd},
		{ID: "orphan", Type: domain.NodeTypePitch},
	})
	require.NoError(t, err)

	findings := Lint(g)
	require.Len(t, findings, 1)
	assert.Equal(t, "orphan", findings[0].NodeID)
	assert.Contains(t, findings[0].Message, "unreachable")
}

func TestLint_CyclesAreNormal(t *testing.T) {
	// Objection loops back to discovery; that is a legal shape, not a defect.
	g, err := New([]domain.Node{
		{
			ID:   "opening_cold",
			Type: domain.NodeTypeOpening,
			Responses: []domain.Response{
				{Label: "go", NextNode: "disc_env"},
			},
		},
		{
			ID:   "disc_env",
			Type: domain.NodeTypeDiscovery,
			Responses: []domain.Response{
				{Label: "pushback", NextNode: "obj_busy"},
			},
		},
		{
			ID:   "obj_busy",
			Type: domain.NodeTypeObjection,
			Responses: []domain.Response{
				{Label: "resume", NextNode: "disc_env"},
			},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, Lint(g))
}
