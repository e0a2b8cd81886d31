package ports

import (
	"context"

	"github.com/pitchline/pitchline/pkg/domain"
)

// StateStore defines the interface for persisting call session state.
// Persistence is a collaborator concern: the engine never touches a store
// itself, but serving layers snapshot sessions through one.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
