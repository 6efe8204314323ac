package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildworks/combat-api/internal/engine"
	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/pkg/roller"
)

func TestResolveDropsIndependentTrials(t *testing.T) {
	table := []entities.LootTableEntry{
		{ItemID: "item_fang", Chance: 0.5, Quantity: 1},
		{ItemID: "item_pelt", Chance: 0.5, Quantity: 2},
	}

	// First trial rolls 5000 (<= 0.5*10000, hit), second rolls 5001 (miss)
	r := roller.NewScripted(5000, 5001)
	drops, err := engine.ResolveDrops(table, 1, r)
	require.NoError(t, err)
	require.Len(t, drops, 1)
	assert.Equal(t, "item_fang", drops[0].ItemID)
	assert.Equal(t, 1, drops[0].Quantity)

	// Both can hit in the same kill: no mutual exclusion
	r = roller.NewScripted(1, 5000)
	drops, err = engine.ResolveDrops(table, 1, r)
	require.NoError(t, err)
	require.Len(t, drops, 2)
	assert.Equal(t, "item_pelt", drops[1].ItemID)
	assert.Equal(t, 2, drops[1].Quantity)

	// And both can miss
	r = roller.NewScripted(10000, 9999)
	drops, err = engine.ResolveDrops(table, 1, r)
	require.NoError(t, err)
	assert.Empty(t, drops)
}

func TestResolveDropsStatisticalRates(t *testing.T) {
	table := []entities.LootTableEntry{
		{ItemID: "item_common", Chance: 0.8, Quantity: 1},
		{ItemID: "item_rare", Chance: 0.05, Quantity: 1},
	}

	r := roller.NewSeeded(1234)
	const trials = 20000

	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		drops, err := engine.ResolveDrops(table, 1, r)
		require.NoError(t, err)
		for _, d := range drops {
			counts[d.ItemID]++
		}
	}

	assert.InDelta(t, 0.8, float64(counts["item_common"])/trials, 0.02)
	assert.InDelta(t, 0.05, float64(counts["item_rare"])/trials, 0.01)
}

func TestResolveDropsChanceMultiplier(t *testing.T) {
	table := []entities.LootTableEntry{
		{ItemID: "item_relic", Chance: 0.25, Quantity: 1},
	}

	// 2x weakness loot bonus doubles the effective chance
	r := roller.NewScripted(5000)
	drops, err := engine.ResolveDrops(table, 2, r)
	require.NoError(t, err)
	require.Len(t, drops, 1)

	// Multiplied chance caps at 1: every roll hits
	r = roller.NewScripted(10000)
	drops, err = engine.ResolveDrops(table, 100, r)
	require.NoError(t, err)
	require.Len(t, drops, 1)
}

func TestResolveDropsSkipsZeroChance(t *testing.T) {
	table := []entities.LootTableEntry{
		{ItemID: "item_never", Chance: 0, Quantity: 1},
	}

	// No roll is consumed for unreachable entries
	r := roller.NewScripted()
	drops, err := engine.ResolveDrops(table, 1, r)
	require.NoError(t, err)
	assert.Empty(t, drops)
}

func TestResolveDropsRequiresRoller(t *testing.T) {
	_, err := engine.ResolveDrops(nil, 1, nil)
	assert.Error(t, err)
}
