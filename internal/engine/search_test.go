package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	e := newTestEngine(t)
	state, _ := e.Start(context.Background(), "call-1")

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "Title Match Case-Insensitive",
			query:   "COLD OPEN",
			wantIDs: []string{"opening_a", "opening_b"},
		},
		{
			name:    "Script Match",
			query:   "thirty seconds",
			wantIDs: []string{"obj_1"},
		},
		{
			name:    "Competitor Hint Match",
			query:   "gallery",
			wantIDs: []string{"pitch_1"},
		},
		{
			name:    "Whole Graph Not Just Path",
			query:   "Tuesday",
			wantIDs: []string{"close_1"},
		},
		{
			name:    "No Match",
			query:   "quantum",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := e.Search(state, tt.query)
			ids := make([]string, 0, len(matches))
			for _, n := range matches {
				ids = append(ids, n.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
			assert.ElementsMatch(t, tt.wantIDs, state.SearchResults)
		})
	}
}

func TestSearch_EmptyQueryClears(t *testing.T) {
	e := newTestEngine(t)
	state, _ := e.Start(context.Background(), "call-1")

	require.NotEmpty(t, e.Search(state, "open"))
	require.NotEmpty(t, state.SearchResults)

	matches := e.Search(state, "")
	assert.Nil(t, matches)
	assert.Empty(t, state.SearchResults, "empty query clears results rather than matching everything")
}
