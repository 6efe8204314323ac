package engine

import (
	"github.com/guildworks/combat-api/internal/entities"
)

// DetectCombo finds the combo activated by the given party classes, if any.
// A combo matches when every one of its required classes is covered by a
// distinct party member. When several combos match, the one requiring the
// most classes wins; remaining ties break on the smallest combo ID, so the
// result never depends on catalog iteration order.
func DetectCombo(partyClasses []entities.HeroClass, combos []*entities.PartyCombo) *entities.PartyCombo {
	var best *entities.PartyCombo
	for _, combo := range combos {
		if !comboMatches(partyClasses, combo) {
			continue
		}
		if best == nil ||
			len(combo.RequiredClasses) > len(best.RequiredClasses) ||
			(len(combo.RequiredClasses) == len(best.RequiredClasses) && combo.ID < best.ID) {
			best = combo
		}
	}
	return best
}

// comboMatches checks multiset containment: a party of two warriors satisfies
// a combo requiring two warriors, but not vice versa.
func comboMatches(partyClasses []entities.HeroClass, combo *entities.PartyCombo) bool {
	if len(combo.RequiredClasses) == 0 || len(combo.RequiredClasses) > len(partyClasses) {
		return false
	}

	available := make(map[entities.HeroClass]int, len(partyClasses))
	for _, c := range partyClasses {
		available[c]++
	}

	for _, required := range combo.RequiredClasses {
		if available[required] == 0 {
			return false
		}
		available[required]--
	}
	return true
}
