package entities

// DieType identifies a die by its face count
type DieType string

// Die types
const (
	DieD4   DieType = "d4"
	DieD6   DieType = "d6"
	DieD8   DieType = "d8"
	DieD10  DieType = "d10"
	DieD12  DieType = "d12"
	DieD20  DieType = "d20"
	DieD100 DieType = "d100"
)

// Sides returns the face count for the die type, or 0 for unknown types
func (d DieType) Sides() int {
	switch d {
	case DieD4:
		return 4
	case DieD6:
		return 6
	case DieD8:
		return 8
	case DieD10:
		return 10
	case DieD12:
		return 12
	case DieD20:
		return 20
	case DieD100:
		return 100
	default:
		return 0
	}
}

// Valid reports whether the die type is one of the known types
func (d DieType) Valid() bool {
	return d.Sides() > 0
}

// CombatType tags an enemy with the attribute its checks are resolved against
type CombatType string

// Combat types
const (
	CombatPhysical CombatType = "PHYSICAL"
	CombatMagical  CombatType = "MAGICAL"
	CombatAgile    CombatType = "AGILE"
)

// HeroClass identifies a hero's class in combo definitions
type HeroClass string

// Hero classes
const (
	ClassWarrior HeroClass = "WARRIOR"
	ClassMage    HeroClass = "MAGE"
	ClassRogue   HeroClass = "ROGUE"
	ClassCleric  HeroClass = "CLERIC"
	ClassRanger  HeroClass = "RANGER"
)

// SessionStatus is the lifecycle state of a combat session
type SessionStatus string

// Session statuses. Completed is the consumed sub-state of Victory: rewards
// have been distributed and the session can never pay out again.
const (
	StatusInProgress SessionStatus = "IN_PROGRESS"
	StatusVictory    SessionStatus = "VICTORY"
	StatusFled       SessionStatus = "FLED"
	StatusDefeated   SessionStatus = "DEFEATED"
	StatusCompleted  SessionStatus = "COMPLETED"
)

// Terminal reports whether no further turns may be taken in this status
func (s SessionStatus) Terminal() bool {
	return s != StatusInProgress
}
