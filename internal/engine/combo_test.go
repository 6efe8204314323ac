package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildworks/combat-api/internal/engine"
	"github.com/guildworks/combat-api/internal/entities"
)

func combo(id string, classes ...entities.HeroClass) *entities.PartyCombo {
	return &entities.PartyCombo{ID: id, Name: id, RequiredClasses: classes}
}

func TestDetectComboSubsetMatch(t *testing.T) {
	combos := []*entities.PartyCombo{
		combo("combo_blade_and_bolt", entities.ClassWarrior, entities.ClassMage),
	}

	party := []entities.HeroClass{entities.ClassWarrior, entities.ClassMage, entities.ClassCleric}
	got := engine.DetectCombo(party, combos)
	require.NotNil(t, got)
	assert.Equal(t, "combo_blade_and_bolt", got.ID)
}

func TestDetectComboNoMatch(t *testing.T) {
	combos := []*entities.PartyCombo{
		combo("combo_blade_and_bolt", entities.ClassWarrior, entities.ClassMage),
	}

	assert.Nil(t, engine.DetectCombo([]entities.HeroClass{entities.ClassRogue}, combos))
	assert.Nil(t, engine.DetectCombo(
		[]entities.HeroClass{entities.ClassWarrior, entities.ClassRogue}, combos))
	assert.Nil(t, engine.DetectCombo(nil, combos))
}

func TestDetectComboMultisetContainment(t *testing.T) {
	// Two warriors required: a single warrior must not satisfy it
	combos := []*entities.PartyCombo{
		combo("combo_twin_blades", entities.ClassWarrior, entities.ClassWarrior),
	}

	assert.Nil(t, engine.DetectCombo(
		[]entities.HeroClass{entities.ClassWarrior, entities.ClassMage}, combos))

	got := engine.DetectCombo(
		[]entities.HeroClass{entities.ClassWarrior, entities.ClassWarrior}, combos)
	require.NotNil(t, got)
	assert.Equal(t, "combo_twin_blades", got.ID)
}

func TestDetectComboPrefersMostClasses(t *testing.T) {
	combos := []*entities.PartyCombo{
		combo("combo_pair", entities.ClassWarrior, entities.ClassMage),
		combo("combo_trio", entities.ClassWarrior, entities.ClassMage, entities.ClassRogue),
	}

	party := []entities.HeroClass{entities.ClassWarrior, entities.ClassMage, entities.ClassRogue}
	got := engine.DetectCombo(party, combos)
	require.NotNil(t, got)
	assert.Equal(t, "combo_trio", got.ID)

	// Order of the catalog must not matter
	got = engine.DetectCombo(party, []*entities.PartyCombo{combos[1], combos[0]})
	require.NotNil(t, got)
	assert.Equal(t, "combo_trio", got.ID)
}

func TestDetectComboTieBreaksOnID(t *testing.T) {
	combos := []*entities.PartyCombo{
		combo("combo_b", entities.ClassWarrior, entities.ClassMage),
		combo("combo_a", entities.ClassWarrior, entities.ClassMage),
	}

	party := []entities.HeroClass{entities.ClassWarrior, entities.ClassMage}
	got := engine.DetectCombo(party, combos)
	require.NotNil(t, got)
	assert.Equal(t, "combo_a", got.ID)
}
