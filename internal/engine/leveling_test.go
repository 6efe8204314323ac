package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guildworks/combat-api/internal/engine"
)

func TestApplyExperienceNoLevelUp(t *testing.T) {
	got := engine.ApplyExperience(1, 0, 50)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, int64(50), got.Experience)
	assert.Equal(t, 0, got.LevelsGained)
}

func TestApplyExperienceSingleLevelUp(t *testing.T) {
	// Level 1 needs 100; the remainder carries over
	got := engine.ApplyExperience(1, 80, 30)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, int64(10), got.Experience)
	assert.Equal(t, 1, got.LevelsGained)
}

func TestApplyExperienceCrossesMultipleThresholds(t *testing.T) {
	// 100 + 200 + 300 = 600 to go from 1 to 4
	got := engine.ApplyExperience(1, 0, 650)
	assert.Equal(t, 4, got.Level)
	assert.Equal(t, int64(50), got.Experience)
	assert.Equal(t, 3, got.LevelsGained)
}

func TestApplyExperienceExactThreshold(t *testing.T) {
	got := engine.ApplyExperience(3, 0, 300)
	assert.Equal(t, 4, got.Level)
	assert.Equal(t, int64(0), got.Experience)
	assert.Equal(t, 1, got.LevelsGained)
}

func TestApplyExperienceLevelCap(t *testing.T) {
	got := engine.ApplyExperience(100, 0, 1_000_000)
	assert.Equal(t, 100, got.Level)
	assert.Equal(t, int64(1_000_000), got.Experience)
	assert.Equal(t, 0, got.LevelsGained)
}
