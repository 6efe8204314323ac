// Package diceinventory provides repository interface and types for account dice balances
package diceinventory

import (
	"context"

	"github.com/guildworks/combat-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=diceinventorymock github.com/guildworks/combat-api/internal/repositories/dice_inventory Repository

// GetInput contains parameters for reading an account's dice balances
type GetInput struct {
	AccountID string
}

// GetOutput contains an account's dice balances by die type. Die types the
// account has never held are absent from the map.
type GetOutput struct {
	Balances map[entities.DieType]int64
}

// GrantInput contains parameters for adding dice to an account
type GrantInput struct {
	AccountID string
	DieType   entities.DieType
	Count     int64
}

// GrantOutput contains the balance after the grant
type GrantOutput struct {
	Balance int64
}

// DebitInput contains parameters for consuming one die
type DebitInput struct {
	AccountID string
	DieType   entities.DieType
}

// DebitOutput contains the balance after the debit
type DebitOutput struct {
	Balance int64
}

// Repository defines the interface for dice inventory storage operations
type Repository interface {
	// Get reads all dice balances for an account
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Grant adds dice to an account's balance. Also used to refund a
	// consumed die when a turn fails to persist.
	Grant(ctx context.Context, input GrantInput) (*GrantOutput, error)

	// Debit consumes exactly one die of the given type. Fails with
	// ResourceExhausted when the balance is zero; the balance never goes
	// negative, even under concurrent debits.
	Debit(ctx context.Context, input DebitInput) (*DebitOutput, error)
}
