package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildworks/combat-api/internal/engine"
)

func TestRewardMultiplier(t *testing.T) {
	cases := map[int]float64{1: 1.0, 2: 0.75, 3: 0.60}
	for size, want := range cases {
		got, err := engine.RewardMultiplier(size)
		require.NoError(t, err)
		assert.Equal(t, want, got, "party size %d", size)
	}

	for _, size := range []int{0, 4, -1} {
		_, err := engine.RewardMultiplier(size)
		assert.Error(t, err, "party size %d", size)
	}
}

func TestGoldReward(t *testing.T) {
	gold, err := engine.GoldReward(1000, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), gold)

	gold, err = engine.GoldReward(1000, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(750), gold)

	gold, err = engine.GoldReward(1000, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(600), gold)

	// Fractional payouts floor
	gold, err = engine.GoldReward(101, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(75), gold)
}

func TestExperienceReward(t *testing.T) {
	// Solo: full pool to the one hero
	exp, err := engine.ExperienceReward(900, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(900), exp)

	// Party of 3: 900 * 0.60 / 3
	exp, err = engine.ExperienceReward(900, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(180), exp)

	// Weakness experience bonus scales the per-hero share
	exp, err = engine.ExperienceReward(900, 3, 1.5)
	require.NoError(t, err)
	assert.Equal(t, int64(270), exp)

	// Floor applies once, after all multipliers
	exp, err = engine.ExperienceReward(100, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), exp)
}
