package engine

import (
	"math"

	"github.com/guildworks/combat-api/internal/errors"
)

// Party-size reward multipliers. Party size is validated at session start, so
// any other size here is a programming error.
var rewardMultipliers = map[int]float64{
	1: 1.0,
	2: 0.75,
	3: 0.60,
}

// RewardMultiplier returns the payout multiplier for the given party size
func RewardMultiplier(partySize int) (float64, error) {
	m, ok := rewardMultipliers[partySize]
	if !ok {
		return 0, errors.Internalf("no reward multiplier for party size %d", partySize)
	}
	return m, nil
}

// GoldReward computes the currency payout for the account wallet
func GoldReward(questGold int64, partySize int) (int64, error) {
	m, err := RewardMultiplier(partySize)
	if err != nil {
		return 0, err
	}
	return int64(math.Floor(float64(questGold) * m)), nil
}

// ExperienceReward computes the per-hero experience award. Every hero in the
// party receives the same amount. expMultiplier carries the stacked boss
// weakness experience bonuses; pass 1 when none apply.
func ExperienceReward(questExp int64, partySize int, expMultiplier float64) (int64, error) {
	m, err := RewardMultiplier(partySize)
	if err != nil {
		return 0, err
	}
	return int64(math.Floor(float64(questExp) * m / float64(partySize) * expMultiplier)), nil
}
