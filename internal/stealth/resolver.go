package stealth

import (
	"warciv-server/internal/civ"
	"warciv-server/internal/ideology"
	"warciv-server/internal/shared/random"
)

// MinSpies is the force floor for an infiltration.
const MinSpies = 3

// Effect names a successful infiltration's payload.
type Effect string

const (
	EffectSabotage Effect = "sabotage"
	EffectTheft    Effect = "theft"
	EffectIntel    Effect = "intel"
)

// Outcome reports one resolved infiltration.
type Outcome struct {
	Success bool    `json:"success"`
	Chance  float64 `json:"chance"`
	Effect  Effect  `json:"effect,omitempty"`

	SpiesLost int `json:"spies_lost"`

	// Sabotage damage, destroyed outright.
	StoneDestroyed int `json:"stone_destroyed,omitempty"`
	WoodDestroyed  int `json:"wood_destroyed,omitempty"`
	GoldDestroyed  int `json:"gold_destroyed,omitempty"`
	FoodDestroyed  int `json:"food_destroyed,omitempty"`

	// Theft transfer.
	GoldStolen int `json:"gold_stolen,omitempty"`

	// Intel result.
	TechGained bool `json:"tech_gained,omitempty"`

	// A failed infiltration is always noticed by the defender.
	Detected bool `json:"detected,omitempty"`
}

// Power is a civilization's espionage weight.
func Power(c *civ.Civilization) int {
	return c.Military.Spies * c.Military.TechLevel
}

// successChance computes the final infiltration chance for fresh state.
// Modifier order matters: attacker ideology first, then defender.
func successChance(attacker, defender *civ.Civilization, src random.Source) float64 {
	chance := 0.6 + float64(Power(attacker)-Power(defender))/100
	chance = clamp(chance, 0.2, 0.9)

	chance *= ideology.Modifier(attacker.Ideology, ideology.SpySuccess)
	if attacker.Ideology == ideology.Destruction {
		chance *= 1.2
		if src.Float64() < 0.1 {
			chance += 0.15
		}
	}
	if defender.Ideology == ideology.Fascism {
		chance *= 0.9
	}
	if defender.Ideology == ideology.Pacifist {
		chance *= 1.1
	}

	return chance
}

// resolveInfiltration runs one spy mission on fresh state, mutating both
// civilizations in place. techCap bounds intel tech gains.
func resolveInfiltration(attacker, defender *civ.Civilization, src random.Source, techCap int) *Outcome {
	out := &Outcome{Chance: successChance(attacker, defender, src)}
	out.Success = src.Float64() < out.Chance

	if !out.Success {
		out.SpiesLost = capAt(src.IntBetween(1, 4), attacker.Military.Spies)
		attacker.Military.Spies -= out.SpiesLost
		out.Detected = true
		return out
	}

	out.SpiesLost = capAt(src.IntBetween(0, 2), attacker.Military.Spies)
	attacker.Military.Spies -= out.SpiesLost

	switch src.IntBetween(0, 2) {
	case 0:
		out.Effect = EffectSabotage
		skill := ideology.Modifier(attacker.Ideology, ideology.SabotageSuccess)
		out.StoneDestroyed = int(float64(src.IntBetween(50, 200)) * skill)
		out.WoodDestroyed = int(float64(src.IntBetween(30, 150)) * skill)
		defender.Resources.Stone -= out.StoneDestroyed
		defender.Resources.Wood -= out.WoodDestroyed

		if attacker.Ideology == ideology.Destruction {
			out.GoldDestroyed = src.IntBetween(20, 100)
			out.FoodDestroyed = src.IntBetween(30, 120)
			defender.Resources.Gold -= out.GoldDestroyed
			defender.Resources.Food -= out.FoodDestroyed
		}
	case 1:
		out.Effect = EffectTheft
		pct := src.Uniform(0.05, 0.15)
		if defender.Resources.Gold > 0 {
			out.GoldStolen = int(float64(defender.Resources.Gold) * pct)
		}
		defender.Resources.Gold -= out.GoldStolen
		attacker.Resources.Gold += out.GoldStolen
	default:
		out.Effect = EffectIntel
		if src.Float64() < 0.3 && attacker.Military.TechLevel < techCap {
			attacker.Military.TechLevel++
			out.TechGained = true
		}
	}

	return out
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func capAt(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}
