// Package entities provides core data structures for combat-api.
package entities

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// CombatSession is one run of a party against a quest's ordered enemy
// sequence, from start to a terminal outcome.
type CombatSession struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	QuestID   string `json:"quest_id"`

	// HeroIDs preserves the party ordering chosen at start. Gameplay ignores
	// the order except that the first hero receives all item drops.
	HeroIDs []string `json:"hero_ids"`

	// ComboID is set when the party's classes matched a combo at start
	ComboID string `json:"combo_id,omitempty"`

	// GroupBonus is -(party size - 1), fixed at start
	GroupBonus int `json:"group_bonus"`

	// ComboBonus is the roll reduction from the current boss's weakness to
	// the detected combo; 0 against non-bosses and unmatched bosses
	ComboBonus int `json:"combo_bonus"`

	Status SessionStatus `json:"status"`

	CurrentEnemyID   string   `json:"current_enemy_id,omitempty"`
	DefeatedEnemyIDs []string `json:"defeated_enemy_ids,omitempty"`

	// Turns is append-only; one record per roll plus one for a flee
	Turns []TurnRecord `json:"turns"`

	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Version supports optimistic concurrency in the repository; it is not
	// serialized with the session payload
	Version int64 `json:"-"`
}

// GetID implements core.Entity
func (s *CombatSession) GetID() string {
	return s.ID
}

// GetType implements core.Entity
func (s *CombatSession) GetType() string {
	return "combat_session"
}

// PartySize returns the number of heroes in the session
func (s *CombatSession) PartySize() int {
	return len(s.HeroIDs)
}

// Defeated reports whether the given enemy was defeated within this session
func (s *CombatSession) Defeated(enemyID string) bool {
	for _, id := range s.DefeatedEnemyIDs {
		if id == enemyID {
			return true
		}
	}
	return false
}

// TurnRecord is one entry in a session's combat log
type TurnRecord struct {
	DieType      DieType   `json:"die_type,omitempty"`
	Roll         int       `json:"roll"`
	RequiredRoll int       `json:"required_roll"`
	Success      bool      `json:"success"`
	Detail       string    `json:"detail,omitempty"`
	RolledAt     time.Time `json:"rolled_at"`
}

// ComboDiscovery records that an account has learned a boss's weakness to a
// combo. Created once per (account, enemy, combo); afterwards only the
// counters grow.
type ComboDiscovery struct {
	AccountID         string    `json:"account_id"`
	EnemyID           string    `json:"enemy_id"`
	ComboID           string    `json:"combo_id"`
	FirstDiscoveredAt time.Time `json:"first_discovered_at"`
	Uses              int64     `json:"uses"`
	Wins              int64     `json:"wins"`
}

var _ core.Entity = (*CombatSession)(nil)
