package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

// Storage defines gamestate persistence plus the static card catalog.
// Persistence is best-effort: the session layer is the source of truth
// and re-adopts evicted sessions from storage on access.
type Storage interface {
	// Ping tests the backing connection
	Ping(ctx context.Context) error

	// Close closes the backing connection
	Close() error

	// SaveGameState saves a gamestate under its UUID
	SaveGameState(ctx context.Context, id uuid.UUID, gs *sim.GameState) error

	// LoadGameState retrieves a gamestate by UUID.
	// Returns nil if the gamestate doesn't exist
	LoadGameState(ctx context.Context, id uuid.UUID) (*sim.GameState, error)

	// DeleteGameState removes a gamestate by UUID
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// GetCardCatalog loads the action card catalog
	GetCardCatalog(ctx context.Context) ([]sim.ActionCard, error)
}
