package combat

import (
	"math"

	"warciv-server/internal/civ"
	"warciv-server/internal/ideology"
	"warciv-server/internal/shared/random"
)

// MinAttackSoldiers is the force floor for launching an attack.
const MinAttackSoldiers = 10

// Spoils are the resources transferred from the defender on victory.
type Spoils struct {
	Gold  int `json:"gold"`
	Food  int `json:"food"`
	Stone int `json:"stone"`
	Wood  int `json:"wood"`
}

// Outcome reports one resolved battle.
type Outcome struct {
	Victory          bool    `json:"victory"`
	AttackerStrength float64 `json:"attacker_strength"`
	DefenderStrength float64 `json:"defender_strength"`
	AttackerRoll     float64 `json:"attacker_roll"`
	DefenderRoll     float64 `json:"defender_roll"`
	Margin           float64 `json:"margin"`
	AttackerLosses   int     `json:"attacker_losses"`
	DefenderLosses   int     `json:"defender_losses"`
	Spoils           Spoils  `json:"spoils"`
	LandTaken        int     `json:"land_taken"`
	GoldDestroyed    int     `json:"gold_destroyed"`
	WarWon           bool    `json:"war_won"`
	PeaceSuggested   bool    `json:"peace_suggested"`
}

// Strength is a civilization's battle weight: raw military scaled by the
// accumulated defense_strength bonus percentage.
func Strength(c *civ.Civilization) float64 {
	base := float64(c.Military.Soldiers*10+c.Military.Spies*5+c.Military.TechLevel*50) +
		float64(c.Territory.LandSize)/100
	return base * (1 + c.Bonus("defense_strength")/100)
}

// resolveBattle runs one battle on fresh state, mutating both civilizations
// in place. Callers invoke it inside a pair update so every change lands in
// one atomic commit.
func resolveBattle(attacker, defender *civ.Civilization, src random.Source) *Outcome {
	out := &Outcome{
		AttackerStrength: Strength(attacker),
		DefenderStrength: Strength(defender),
	}

	out.AttackerRoll = src.Uniform(0.8, 1.2)
	out.DefenderRoll = src.Uniform(0.8, 1.2)

	if attacker.Ideology == ideology.Fascism {
		out.AttackerRoll *= 1.1
	}
	if defender.Ideology == ideology.Fascism {
		out.DefenderRoll *= 1.1
	}
	if attacker.Ideology == ideology.Destruction {
		out.AttackerRoll *= 1.15
		out.DefenderRoll *= 0.9
	}
	if defender.Ideology == ideology.Pacifist {
		out.DefenderRoll *= 0.85
	}

	finalAttacker := out.AttackerStrength * out.AttackerRoll
	finalDefender := out.DefenderStrength * out.DefenderRoll

	if finalAttacker > finalDefender {
		out.Victory = true
		out.Margin = finalAttacker / finalDefender
		resolveVictory(attacker, defender, src, out)
	} else {
		out.Margin = finalDefender / finalAttacker
		resolveDefeat(attacker, defender, src, out)
	}

	return out
}

func resolveVictory(attacker, defender *civ.Civilization, src random.Source, out *Outcome) {
	out.AttackerLosses = capLosses(src.IntBetween(2, 8), attacker.Military.Soldiers)
	out.DefenderLosses = capLosses(int(math.Round(float64(out.AttackerLosses)*out.Margin)), defender.Military.Soldiers)
	attacker.Military.Soldiers -= out.AttackerLosses
	defender.Military.Soldiers -= out.DefenderLosses

	out.Spoils = Spoils{
		Gold:  share(defender.Resources.Gold, 0.15),
		Food:  share(defender.Resources.Food, 0.10),
		Stone: share(defender.Resources.Stone, 0.10),
		Wood:  share(defender.Resources.Wood, 0.10),
	}
	defender.Resources.Gold -= out.Spoils.Gold
	defender.Resources.Food -= out.Spoils.Food
	defender.Resources.Stone -= out.Spoils.Stone
	defender.Resources.Wood -= out.Spoils.Wood
	attacker.Resources.Gold += out.Spoils.Gold
	attacker.Resources.Food += out.Spoils.Food
	attacker.Resources.Stone += out.Spoils.Stone
	attacker.Resources.Wood += out.Spoils.Wood

	out.LandTaken = share(defender.Territory.LandSize, 0.05)
	defender.Territory.LandSize -= out.LandTaken
	attacker.Territory.LandSize += out.LandTaken

	// Destruction razes part of what is left of the treasury; nothing is
	// credited to the attacker.
	if attacker.Ideology == ideology.Destruction {
		out.GoldDestroyed = share(defender.Resources.Gold, 0.05)
		defender.Resources.Gold -= out.GoldDestroyed
	}

	out.WarWon = defender.Military.Soldiers == 0
}

func resolveDefeat(attacker, defender *civ.Civilization, src random.Source, out *Outcome) {
	out.AttackerLosses = capLosses(int(math.Round(float64(src.IntBetween(5, 15))*out.Margin)), attacker.Military.Soldiers)
	out.DefenderLosses = capLosses(src.IntBetween(2, 5), defender.Military.Soldiers)
	attacker.Military.Soldiers -= out.AttackerLosses
	defender.Military.Soldiers -= out.DefenderLosses

	attacker.Population.Happiness -= 10

	if defender.Ideology == ideology.Pacifist && src.Float64() > 0.7 {
		out.PeaceSuggested = true
	}
}

// share computes a percentage cut of a holding, never negative. Balances
// already in debt yield nothing to loot.
func share(amount int, pct float64) int {
	if amount <= 0 {
		return 0
	}
	return int(float64(amount) * pct)
}

func capLosses(losses, available int) int {
	if losses > available {
		return available
	}
	if losses < 0 {
		return 0
	}
	return losses
}
