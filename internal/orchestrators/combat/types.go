package combat

import (
	"github.com/guildworks/combat-api/internal/entities"
)

// StartCombatInput contains parameters for starting a combat session
type StartCombatInput struct {
	AccountID string
	QuestID   string
	HeroIDs   []string
}

// StartCombatOutput contains the newly started session and its priming data
type StartCombatOutput struct {
	Session *entities.CombatSession

	// Combo is the detected party combo, nil when none matched
	Combo *entities.PartyCombo

	// Enemy is the first encounter of the quest
	Enemy *entities.Enemy

	// RequiredRoll is the threshold for the first encounter, for display
	RequiredRoll int
}

// RollInput contains parameters for resolving one combat turn
type RollInput struct {
	AccountID string
	SessionID string
	DieType   entities.DieType
}

// RollOutput contains the result of one combat turn
type RollOutput struct {
	Session *entities.CombatSession

	Roll         int
	RequiredRoll int
	Success      bool

	// DefeatedEnemyID is set when this turn's roll defeated the enemy
	DefeatedEnemyID string

	// Victory reports that the quest's last enemy fell this turn
	Victory bool
}

// FleeInput contains parameters for abandoning a session
type FleeInput struct {
	AccountID string
	SessionID string
}

// FleeOutput contains the fled session
type FleeOutput struct {
	Session *entities.CombatSession
}

// CompleteInput contains parameters for completing a victorious session
type CompleteInput struct {
	AccountID string
	SessionID string
}

// HeroLevelUp describes one hero's progression from a completion award
type HeroLevelUp struct {
	HeroID       string
	FromLevel    int
	ToLevel      int
	LevelsGained int
}

// ItemDrop is one item stack that fell during reward distribution
type ItemDrop struct {
	EnemyID  string
	ItemID   string
	Quantity int
}

// CompleteOutput contains everything the completion distributed
type CompleteOutput struct {
	Session *entities.CombatSession

	GoldAwarded       int64
	ExperiencePerHero int64
	LevelUps          []HeroLevelUp

	// Drops lists every item that fell; all of them were credited to the
	// first hero in party order
	Drops []ItemDrop

	// NewDiscoveries lists boss enemy IDs whose weakness to the session's
	// combo was discovered for the first time
	NewDiscoveries []string
}

// GetSessionInput contains parameters for reading a session
type GetSessionInput struct {
	AccountID string
	SessionID string
}

// GetSessionOutput contains the session
type GetSessionOutput struct {
	Session *entities.CombatSession
}
