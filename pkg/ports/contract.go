package ports

import (
	"context"
	"testing"
	"time"

	"github.com/pitchline/pitchline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation adheres to the defined interface contract. Adapter test
// files call this with their concrete store.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "opening_cold")
		state.Path = append(state.Path, "disc_env", "obj_busy")
		state.CurrentNodeID = "obj_busy"
		state.ReturnNodeID = "disc_env"
		state.Notes = "prospect mentioned a backlog"
		state.Metadata.EHR = "Epic"
		state.Metadata.Competitors = []string{"OnBase"}
		state.Outcome = domain.OutcomeFollowUp

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, state.Path, loaded.Path)
		assert.Equal(t, state.ReturnNodeID, loaded.ReturnNodeID)
		assert.Equal(t, state.Notes, loaded.Notes)
		assert.Equal(t, "Epic", loaded.Metadata.EHR)
		assert.Equal(t, []string{"OnBase"}, loaded.Metadata.Competitors)
		assert.Equal(t, domain.OutcomeFollowUp, loaded.Outcome)
	})

	t.Run("Load Returns Snapshot", func(t *testing.T) {
		state := domain.NewState(sessionID, "opening_cold")
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Path = append(loaded.Path, "mutated")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"opening_cold"}, again.Path,
			"mutating a loaded state must not leak back into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "opening_cold"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "opening_cold"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "opening_cold"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
