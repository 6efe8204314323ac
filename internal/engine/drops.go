package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
)

// dropRollPrecision is the granularity of drop-chance evaluation: chances are
// resolved as a roll on a d10000, so probabilities are exact to 0.01%.
const dropRollPrecision = 10000

// Drop is one item that fell from a defeated enemy
type Drop struct {
	ItemID   string
	Quantity int
}

// ResolveDrops evaluates an enemy's loot table. Each entry is an independent
// trial at its own chance; entries neither exclude nor influence one another,
// so a single kill can yield zero, one, or every item in the table.
// chanceMultiplier scales each entry's chance (weakness loot bonus); pass 1
// for the unmodified table. Each entry's effective chance caps at 1.
func ResolveDrops(table []entities.LootTableEntry, chanceMultiplier float64, roller dice.Roller) ([]Drop, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("roller is required")
	}

	var drops []Drop
	for _, entry := range table {
		chance := entry.Chance * chanceMultiplier
		if chance <= 0 {
			continue
		}
		if chance > 1 {
			chance = 1
		}

		roll, err := roller.Roll(dropRollPrecision)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll drop chance for item %s", entry.ItemID)
		}

		// roll is uniform on [1, precision], so P(roll <= chance*precision)
		// is exactly the configured chance
		if float64(roll) <= chance*dropRollPrecision {
			qty := entry.Quantity
			if qty < 1 {
				qty = 1
			}
			drops = append(drops, Drop{ItemID: entry.ItemID, Quantity: qty})
		}
	}
	return drops, nil
}
