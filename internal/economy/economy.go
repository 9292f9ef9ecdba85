package economy

import (
	"strings"

	"warciv-server/internal/civ"
	apperrors "warciv-server/internal/shared/errors"
)

// Cost is a resource price vector. Zero fields are free.
type Cost struct {
	Gold  int
	Food  int
	Stone int
	Wood  int
}

// CanAfford reports whether every balance covers its component of the cost.
func CanAfford(c *civ.Civilization, cost Cost) bool {
	return c.Resources.Gold >= cost.Gold &&
		c.Resources.Food >= cost.Food &&
		c.Resources.Stone >= cost.Stone &&
		c.Resources.Wood >= cost.Wood
}

// Spend deducts a cost all-or-nothing. On a shortfall nothing is deducted
// and the error names every short resource. Spend must run inside a store
// update so the check and the deduction commit together.
func Spend(c *civ.Civilization, cost Cost) error {
	var short []string
	if c.Resources.Gold < cost.Gold {
		short = append(short, "gold")
	}
	if c.Resources.Food < cost.Food {
		short = append(short, "food")
	}
	if c.Resources.Stone < cost.Stone {
		short = append(short, "stone")
	}
	if c.Resources.Wood < cost.Wood {
		short = append(short, "wood")
	}
	if len(short) > 0 {
		return apperrors.InsufficientFundsf("not enough %s", strings.Join(short, ", "))
	}

	c.Resources.Gold -= cost.Gold
	c.Resources.Food -= cost.Food
	c.Resources.Stone -= cost.Stone
	c.Resources.Wood -= cost.Wood
	return nil
}

// Credit adds resources without clamping.
func Credit(c *civ.Civilization, amount Cost) {
	c.Resources.Gold += amount.Gold
	c.Resources.Food += amount.Food
	c.Resources.Stone += amount.Stone
	c.Resources.Wood += amount.Wood
}
