package gamedata

import (
	"context"
	"sync"

	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
)

// MemoryConfig seeds an in-memory game-data client with catalog content
type MemoryConfig struct {
	Quests     []*entities.Quest
	Enemies    []*entities.Enemy
	Heroes     []*entities.Hero
	Combos     []*entities.PartyCombo
	Weaknesses []*entities.BossWeakness
	LootTables map[string][]entities.LootTableEntry
}

// Memory is an in-memory Client backed by seeded catalog data. It serves
// local development and tests; production deployments point the service at
// the real backend instead.
type Memory struct {
	mu         sync.RWMutex
	quests     map[string]*entities.Quest
	enemies    map[string]*entities.Enemy
	heroes     map[string]*entities.Hero
	combos     []*entities.PartyCombo
	weaknesses map[string]*entities.BossWeakness
	lootTables map[string][]entities.LootTableEntry
	wallets    map[string]int64
	items      map[string]map[string]int
}

// NewMemory creates an in-memory game-data client from seeded catalog content
func NewMemory(cfg *MemoryConfig) *Memory {
	if cfg == nil {
		cfg = &MemoryConfig{}
	}

	m := &Memory{
		quests:     make(map[string]*entities.Quest),
		enemies:    make(map[string]*entities.Enemy),
		heroes:     make(map[string]*entities.Hero),
		combos:     cfg.Combos,
		weaknesses: make(map[string]*entities.BossWeakness),
		lootTables: make(map[string][]entities.LootTableEntry),
		wallets:    make(map[string]int64),
		items:      make(map[string]map[string]int),
	}

	for _, q := range cfg.Quests {
		m.quests[q.ID] = q
	}
	for _, e := range cfg.Enemies {
		m.enemies[e.ID] = e
	}
	for _, h := range cfg.Heroes {
		m.heroes[h.ID] = h
	}
	for _, w := range cfg.Weaknesses {
		m.weaknesses[weaknessKey(w.EnemyID, w.ComboID)] = w
	}
	for enemyID, table := range cfg.LootTables {
		m.lootTables[enemyID] = table
	}

	return m
}

// Ensure Memory implements Client
var _ Client = (*Memory)(nil)

// GetQuest fetches a quest definition
func (m *Memory) GetQuest(_ context.Context, questID string) (*entities.Quest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	quest, ok := m.quests[questID]
	if !ok {
		return nil, errors.NotFoundf("quest %s not found", questID)
	}
	return quest, nil
}

// GetEnemy fetches an enemy definition
func (m *Memory) GetEnemy(_ context.Context, enemyID string) (*entities.Enemy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	enemy, ok := m.enemies[enemyID]
	if !ok {
		return nil, errors.NotFoundf("enemy %s not found", enemyID)
	}
	return enemy, nil
}

// GetHero fetches a hero owned by an account
func (m *Memory) GetHero(_ context.Context, heroID string) (*entities.Hero, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hero, ok := m.heroes[heroID]
	if !ok {
		return nil, errors.NotFoundf("hero %s not found", heroID)
	}

	copied := *hero
	return &copied, nil
}

// ListPartyCombos returns the full combo catalog
func (m *Memory) ListPartyCombos(_ context.Context) ([]*entities.PartyCombo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.combos, nil
}

// GetBossWeakness fetches the weakness a combo exploits on a boss
func (m *Memory) GetBossWeakness(_ context.Context, enemyID, comboID string) (*entities.BossWeakness, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	weakness, ok := m.weaknesses[weaknessKey(enemyID, comboID)]
	if !ok {
		return nil, errors.NotFoundf("enemy %s has no weakness to combo %s", enemyID, comboID)
	}
	return weakness, nil
}

// GetLootTable fetches an enemy's drop table
func (m *Memory) GetLootTable(_ context.Context, enemyID string) ([]entities.LootTableEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lootTables[enemyID], nil
}

// CreditGold deposits quest gold into an account's wallet
func (m *Memory) CreditGold(_ context.Context, accountID string, amount int64) error {
	if accountID == "" {
		return errors.InvalidArgument("account ID cannot be empty")
	}
	if amount < 0 {
		return errors.InvalidArgument("credit amount cannot be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.wallets[accountID] += amount
	return nil
}

// SaveHeroProgress persists a hero's level and experience
func (m *Memory) SaveHeroProgress(_ context.Context, hero *entities.Hero) error {
	if hero == nil {
		return errors.InvalidArgument("hero cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.heroes[hero.ID]; !ok {
		return errors.NotFoundf("hero %s not found", hero.ID)
	}

	copied := *hero
	m.heroes[hero.ID] = &copied
	return nil
}

// GrantItems deposits dropped items into a hero's inventory
func (m *Memory) GrantItems(_ context.Context, heroID string, grants []ItemGrant) error {
	if heroID == "" {
		return errors.InvalidArgument("hero ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	inventory := m.items[heroID]
	if inventory == nil {
		inventory = make(map[string]int)
		m.items[heroID] = inventory
	}
	for _, grant := range grants {
		inventory[grant.ItemID] += grant.Quantity
	}
	return nil
}

// WalletBalance reports an account's gold. Test helper.
func (m *Memory) WalletBalance(accountID string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.wallets[accountID]
}

// ItemCount reports how many of an item a hero holds. Test helper.
func (m *Memory) ItemCount(heroID, itemID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.items[heroID][itemID]
}

func weaknessKey(enemyID, comboID string) string {
	return enemyID + ":" + comboID
}
