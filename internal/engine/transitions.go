// Package engine implements the combat rules: session state transitions,
// combo detection, required-roll calculation, loot resolution, and
// reward/level math. Everything here is pure computation; persistence and
// orchestration live elsewhere.
package engine

import (
	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
)

// Event is something that can change a session's status
type Event string

// Session events
const (
	EventVictory  Event = "VICTORY"
	EventFlee     Event = "FLEE"
	EventDefeat   Event = "DEFEAT"
	EventComplete Event = "COMPLETE"
)

// transitions is the single source of truth for legal status changes.
// Anything absent from the table is rejected.
var transitions = map[entities.SessionStatus]map[Event]entities.SessionStatus{
	entities.StatusInProgress: {
		EventVictory: entities.StatusVictory,
		EventFlee:    entities.StatusFled,
		EventDefeat:  entities.StatusDefeated,
	},
	entities.StatusVictory: {
		EventComplete: entities.StatusCompleted,
	},
}

// Transition returns the status reached by applying event to from, or a
// FailedPrecondition error naming the current status so callers can tell
// "already won, call complete" apart from "fled" or "defeated".
func Transition(from entities.SessionStatus, event Event) (entities.SessionStatus, error) {
	if to, ok := transitions[from][event]; ok {
		return to, nil
	}

	if from == entities.StatusCompleted && event == EventComplete {
		return "", errors.FailedPrecondition("session already completed").
			WithMeta("status", string(from))
	}

	return "", errors.FailedPreconditionf("session is %s, cannot apply %s", from, event).
		WithMeta("status", string(from))
}

// CanTransition reports whether event is legal in the given status
func CanTransition(from entities.SessionStatus, event Event) bool {
	_, ok := transitions[from][event]
	return ok
}
