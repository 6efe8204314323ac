// Package gamedata is the client for the game-management backend that owns
// quests, enemies, heroes, and account property. Combat reads its catalog and
// writes back rewards and hero progression.
package gamedata

//go:generate mockgen -destination=mock/mock_client.go -package=gamedatamock github.com/guildworks/combat-api/internal/clients/gamedata Client

import (
	"context"

	"github.com/guildworks/combat-api/internal/entities"
)

// ItemGrant is one item stack to deposit into an account's inventory
type ItemGrant struct {
	ItemID   string
	Quantity int
}

// Client defines the interface for game-management backend interactions
type Client interface {
	// GetQuest fetches a quest definition
	GetQuest(ctx context.Context, questID string) (*entities.Quest, error)

	// GetEnemy fetches an enemy definition
	GetEnemy(ctx context.Context, enemyID string) (*entities.Enemy, error)

	// GetHero fetches a hero owned by an account
	GetHero(ctx context.Context, heroID string) (*entities.Hero, error)

	// ListPartyCombos returns the full combo catalog
	ListPartyCombos(ctx context.Context) ([]*entities.PartyCombo, error)

	// GetBossWeakness fetches the weakness a combo exploits on a boss.
	// Returns NotFound when the combo exploits nothing on that boss.
	GetBossWeakness(ctx context.Context, enemyID, comboID string) (*entities.BossWeakness, error)

	// GetLootTable fetches an enemy's drop table. An enemy with no drops
	// has an empty table, not an error.
	GetLootTable(ctx context.Context, enemyID string) ([]entities.LootTableEntry, error)

	// CreditGold deposits quest gold into an account's wallet
	CreditGold(ctx context.Context, accountID string, amount int64) error

	// SaveHeroProgress persists a hero's level and experience
	SaveHeroProgress(ctx context.Context, hero *entities.Hero) error

	// GrantItems deposits dropped items into a hero's inventory
	GrantItems(ctx context.Context, heroID string, grants []ItemGrant) error
}
