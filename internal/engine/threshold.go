package engine

import (
	"github.com/guildworks/combat-api/internal/entities"
)

const (
	// requiredRollFloor: bonuses discount the roll but never below this
	requiredRollFloor = 1

	// attributeBonusDivisor converts a raw attribute into a roll discount:
	// every full 5 points shaves one pip off the required roll
	attributeBonusDivisor = 5
)

// GroupBonus returns the roll discount for fighting with more than one hero
func GroupBonus(partySize int) int {
	return -(partySize - 1)
}

// AttributeBonus returns a single hero's roll discount against the given
// combat type. Physical checks draw on Strength, Magical on Intelligence,
// Agile on Dexterity.
func AttributeBonus(hero *entities.Hero, ct entities.CombatType) int {
	return -(hero.Attribute(ct) / attributeBonusDivisor)
}

// RequiredRoll combines the enemy's difficulty floor with the group, combo,
// and per-hero attribute bonuses into the minimum die result needed to win
// the encounter. Never returns less than 1.
func RequiredRoll(enemy *entities.Enemy, groupBonus, comboBonus int, party []*entities.Hero) int {
	required := enemy.MinimumRoll + groupBonus + comboBonus
	for _, hero := range party {
		required += AttributeBonus(hero, enemy.CombatType)
	}

	if required < requiredRollFloor {
		return requiredRollFloor
	}
	return required
}
