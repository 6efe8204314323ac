package gamedata_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildworks/combat-api/internal/clients/gamedata"
	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
)

func newSeededMemory() *gamedata.Memory {
	return gamedata.NewMemory(&gamedata.MemoryConfig{
		Quests: []*entities.Quest{
			{ID: "quest_1", GoldReward: 100, ExperienceReward: 50, EnemyIDs: []string{"enemy_1"}},
		},
		Enemies: []*entities.Enemy{
			{ID: "enemy_1", MinimumRoll: 5, RequiredDie: entities.DieD6, CombatType: entities.CombatPhysical, Boss: true},
		},
		Heroes: []*entities.Hero{
			{ID: "hero_1", AccountID: "acct_1", Class: entities.ClassWarrior, Level: 1},
		},
		Weaknesses: []*entities.BossWeakness{
			{EnemyID: "enemy_1", ComboID: "combo_1", RollReduction: 2},
		},
	})
}

func TestMemoryCatalogLookups(t *testing.T) {
	m := newSeededMemory()
	ctx := context.Background()

	quest, err := m.GetQuest(ctx, "quest_1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), quest.GoldReward)

	_, err = m.GetQuest(ctx, "quest_missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = m.GetEnemy(ctx, "enemy_missing")
	assert.True(t, errors.IsNotFound(err))

	weakness, err := m.GetBossWeakness(ctx, "enemy_1", "combo_1")
	require.NoError(t, err)
	assert.Equal(t, 2, weakness.RollReduction)

	_, err = m.GetBossWeakness(ctx, "enemy_1", "combo_other")
	assert.True(t, errors.IsNotFound(err))

	table, err := m.GetLootTable(ctx, "enemy_1")
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestMemoryHeroIsolation(t *testing.T) {
	m := newSeededMemory()
	ctx := context.Background()

	hero, err := m.GetHero(ctx, "hero_1")
	require.NoError(t, err)

	// Mutating the returned copy must not touch the stored record
	hero.Level = 99
	again, err := m.GetHero(ctx, "hero_1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Level)

	hero.Level = 3
	hero.Experience = 42
	require.NoError(t, m.SaveHeroProgress(ctx, hero))

	saved, err := m.GetHero(ctx, "hero_1")
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Level)
	assert.Equal(t, int64(42), saved.Experience)
}

func TestMemoryWalletAndItems(t *testing.T) {
	m := newSeededMemory()
	ctx := context.Background()

	require.NoError(t, m.CreditGold(ctx, "acct_1", 75))
	require.NoError(t, m.CreditGold(ctx, "acct_1", 25))
	assert.Equal(t, int64(100), m.WalletBalance("acct_1"))

	require.NoError(t, m.GrantItems(ctx, "hero_1", []gamedata.ItemGrant{
		{ItemID: "item_fang", Quantity: 2},
		{ItemID: "item_pelt", Quantity: 1},
		{ItemID: "item_fang", Quantity: 1},
	}))
	assert.Equal(t, 3, m.ItemCount("hero_1", "item_fang"))
	assert.Equal(t, 1, m.ItemCount("hero_1", "item_pelt"))
	assert.Equal(t, 0, m.ItemCount("hero_other", "item_fang"))
}
