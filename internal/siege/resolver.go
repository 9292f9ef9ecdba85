package siege

import (
	"warciv-server/internal/civ"
	"warciv-server/internal/economy"
	"warciv-server/internal/ideology"
)

// MinSiegeSoldiers is the force floor for laying a siege.
const MinSiegeSoldiers = 50

// Outcome reports one resolved siege. Drained resources are destroyed,
// never transferred; a siege starves the defender without enriching the
// besieger.
type Outcome struct {
	Effectiveness float64      `json:"effectiveness"`
	Maintenance   economy.Cost `json:"maintenance"`

	GoldDrained  int `json:"gold_drained"`
	FoodDrained  int `json:"food_drained"`
	WoodDrained  int `json:"wood_drained"`
	StoneDrained int `json:"stone_drained"`

	// Extra scorched-earth burn after the regular drain.
	GoldBurned int `json:"gold_burned,omitempty"`
	FoodBurned int `json:"food_burned,omitempty"`
}

// maintenance prices one siege: gold = soldiers×2, food = soldiers×3,
// scaled by the attacker's soldier_upkeep modifier.
func maintenance(a *civ.Civilization) economy.Cost {
	upkeep := ideology.Modifier(a.Ideology, ideology.SoldierUpkeep)
	return economy.Cost{
		Gold: int(float64(a.Military.Soldiers*2) * upkeep),
		Food: int(float64(a.Military.Soldiers*3) * upkeep),
	}
}

// effectiveness is the share of each drain percentage that lands, from
// the attacker's army weight against the defender's garrison and sprawl.
func effectiveness(attacker, defender *civ.Civilization) float64 {
	power := float64(attacker.Military.Soldiers + attacker.Military.TechLevel*10)
	resistance := float64(defender.Military.Soldiers) + float64(defender.Territory.LandSize)/100
	return power / (power + resistance)
}

// resolveSiege runs one siege on fresh state, mutating both civilizations
// in place. Maintenance is spent before any drain; a shortfall aborts the
// whole siege with nothing changed.
func resolveSiege(attacker, defender *civ.Civilization) (*Outcome, error) {
	cost := maintenance(attacker)
	if err := economy.Spend(attacker, cost); err != nil {
		return nil, err
	}

	out := &Outcome{
		Effectiveness: effectiveness(attacker, defender),
		Maintenance:   cost,
	}

	out.GoldDrained = drain(defender.Resources.Gold, 0.10*out.Effectiveness)
	out.FoodDrained = drain(defender.Resources.Food, 0.20*out.Effectiveness)
	out.WoodDrained = drain(defender.Resources.Wood, 0.15*out.Effectiveness)
	out.StoneDrained = drain(defender.Resources.Stone, 0.15*out.Effectiveness)

	defender.Resources.Gold -= out.GoldDrained
	defender.Resources.Food -= out.FoodDrained
	defender.Resources.Wood -= out.WoodDrained
	defender.Resources.Stone -= out.StoneDrained

	if attacker.Ideology == ideology.Destruction {
		out.GoldBurned = drain(defender.Resources.Gold, 0.05)
		out.FoodBurned = drain(defender.Resources.Food, 0.05)
		defender.Resources.Gold -= out.GoldBurned
		defender.Resources.Food -= out.FoodBurned
	}

	defender.Population.Happiness -= 15
	attacker.Population.Happiness -= 5

	return out, nil
}

// drain floors a fractional cut of a holding. Negative holdings yield
// nothing further to drain.
func drain(holding int, frac float64) int {
	if holding <= 0 {
		return 0
	}
	return int(float64(holding) * frac)
}
