package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Quest is reference data: an ordered enemy sequence with its rewards.
// Read-only to the engine; maintained by the catalog surface.
type Quest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	GoldReward       int64  `json:"gold_reward"`
	ExperienceReward int64  `json:"experience_reward"`

	// EnemyIDs is the stable encounter order (catalog order)
	EnemyIDs []string `json:"enemy_ids"`
}

// Enemy is reference data for a single encounter
type Enemy struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	MinimumRoll int        `json:"minimum_roll"`
	RequiredDie DieType    `json:"required_die"`
	CombatType  CombatType `json:"combat_type"`
	Boss        bool       `json:"boss"`
}

// GetID implements core.Entity
func (e *Enemy) GetID() string {
	return e.ID
}

// GetType implements core.Entity
func (e *Enemy) GetType() string {
	return "enemy"
}

// PartyCombo is reference data: an unordered set of 1-3 hero classes that
// activates a combo when all are present in the party. Single-class combos
// let a boss be weak to a lone hero's class.
type PartyCombo struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	RequiredClasses []HeroClass `json:"required_classes"`
}

// BossWeakness is reference data mapping (enemy, combo) to its discounts
type BossWeakness struct {
	EnemyID              string  `json:"enemy_id"`
	ComboID              string  `json:"combo_id"`
	RollReduction        int     `json:"roll_reduction"`
	LootMultiplier       float64 `json:"loot_multiplier"`
	ExperienceMultiplier float64 `json:"experience_multiplier"`
}

// LootTableEntry is one independent-probability drop in an enemy's table
type LootTableEntry struct {
	ItemID   string  `json:"item_id"`
	Chance   float64 `json:"chance"`
	Quantity int     `json:"quantity"`
}

// Hero is the slice of a hero record the engine needs: ownership, class for
// combo detection, attributes for roll bonuses, and progression state
type Hero struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Class     HeroClass `json:"class"`

	Level      int   `json:"level"`
	Experience int64 `json:"experience"`

	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Dexterity    int `json:"dexterity"`
}

// GetID implements core.Entity
func (h *Hero) GetID() string {
	return h.ID
}

// GetType implements core.Entity
func (h *Hero) GetType() string {
	return "hero"
}

// Attribute returns the attribute value matching the given combat type
func (h *Hero) Attribute(ct CombatType) int {
	switch ct {
	case CombatPhysical:
		return h.Strength
	case CombatMagical:
		return h.Intelligence
	case CombatAgile:
		return h.Dexterity
	default:
		return 0
	}
}

var (
	_ core.Entity = (*Enemy)(nil)
	_ core.Entity = (*Hero)(nil)
)
