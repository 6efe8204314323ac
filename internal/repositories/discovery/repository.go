// Package discovery provides repository interface and types for combo discovery records
package discovery

import (
	"context"

	"github.com/guildworks/combat-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=discoverymock github.com/guildworks/combat-api/internal/repositories/discovery Repository

// RegisterInput contains parameters for recording a combo use against a boss
type RegisterInput struct {
	AccountID string
	EnemyID   string
	ComboID   string
	Won       bool
}

// RegisterOutput reports whether this was the account's first time landing
// this combo on this boss
type RegisterOutput struct {
	NewDiscovery bool
}

// GetInput contains parameters for reading one discovery record
type GetInput struct {
	AccountID string
	EnemyID   string
	ComboID   string
}

// GetOutput contains the result of reading one discovery record
type GetOutput struct {
	Discovery *entities.ComboDiscovery
}

// ListInput contains parameters for listing an account's discoveries
type ListInput struct {
	AccountID string
}

// ListOutput contains every discovery an account has made
type ListOutput struct {
	Discoveries []*entities.ComboDiscovery
}

// Repository defines the interface for combo discovery storage operations
type Repository interface {
	// Register records one use of a combo against a boss. The first call
	// for a given (account, enemy, combo) triple stamps the discovery
	// time; every call bumps the use counter. Idempotent in the sense
	// that replays can never mark a second "first" discovery.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Get reads one discovery record
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List returns every discovery an account has made
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}
