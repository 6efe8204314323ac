// Package combatsession provides repository interface and types for combat session storage
package combatsession

import (
	"context"

	"github.com/guildworks/combat-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=combatsessionmock github.com/guildworks/combat-api/internal/repositories/combat_session Repository

// CreateInput contains parameters for creating a combat session
type CreateInput struct {
	Session *entities.CombatSession
}

// CreateOutput contains the result of creating a combat session
type CreateOutput struct {
	Session *entities.CombatSession
}

// GetInput contains parameters for retrieving a combat session
type GetInput struct {
	SessionID string
}

// GetOutput contains the result of retrieving a combat session
type GetOutput struct {
	Session *entities.CombatSession
}

// UpdateInput contains parameters for updating a combat session.
// Session.Version must be the version read from the last Get; the update
// is rejected if the stored session has moved on since.
type UpdateInput struct {
	Session *entities.CombatSession
}

// UpdateOutput contains the result of updating a combat session
type UpdateOutput struct {
	Session *entities.CombatSession
}

// Repository defines the interface for combat session storage operations
type Repository interface {
	// Create stores a new session and claims the hero locks for its party.
	// Fails with FailedPrecondition if any party member is already locked
	// into another active session.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a combat session by ID
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a session under optimistic concurrency control.
	// When the session has reached a terminal status its hero locks are
	// released in the same atomic step. Fails with Aborted on a version
	// conflict.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}
