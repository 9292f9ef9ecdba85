package tech

import (
	"warciv-server/internal/civ"
	"warciv-server/internal/ideology"
	"warciv-server/internal/shared/random"
)

// SelectionSize is how many cards a selection offers.
const SelectionSize = 3

// Card is one drawable technology advance. One-time cards move resources
// or units; persistent cards accumulate a named bonus on the civilization.
type Card struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	apply      func(c *civ.Civilization)
	grantsTech bool
}

var pool = []Card{
	{
		Name:        "Gold Cache",
		Description: "A hidden treasury is uncovered. +500 gold.",
		apply:       func(c *civ.Civilization) { c.Resources.Gold += 500 },
	},
	{
		Name:        "Resource Boost",
		Description: "Supply lines surge. +200 of every resource.",
		apply: func(c *civ.Civilization) {
			c.Resources.Gold += 200
			c.Resources.Food += 200
			c.Resources.Stone += 200
			c.Resources.Wood += 200
		},
	},
	{
		Name:        "Food Stores",
		Description: "Granaries overflow. +300 food.",
		apply:       func(c *civ.Civilization) { c.Resources.Food += 300 },
	},
	{
		Name:        "Building Materials",
		Description: "Quarries and lumber camps deliver. +150 stone, +150 wood.",
		apply: func(c *civ.Civilization) {
			c.Resources.Stone += 150
			c.Resources.Wood += 150
		},
	},
	{
		Name:        "Population Growth",
		Description: "Settlers arrive. +50 citizens.",
		apply:       func(c *civ.Civilization) { c.Population.Citizens += 50 },
	},
	{
		Name:        "Festival",
		Description: "A week of games and feasts. +20 happiness, scaled by ideology.",
		apply: func(c *civ.Civilization) {
			c.Population.Happiness += int(20 * ideology.Modifier(c.Ideology, ideology.HappinessBoost))
		},
	},
	{
		Name:        "Conscription",
		Description: "The levy is called. +25 soldiers.",
		apply:       func(c *civ.Civilization) { c.Military.Soldiers += 25 },
	},
	{
		Name:        "Spy Network",
		Description: "Informants spread through foreign courts. +5 spies.",
		apply:       func(c *civ.Civilization) { c.Military.Spies += 5 },
	},
	{
		Name:        "Land Grant",
		Description: "Borders are redrawn in your favor. +250 land.",
		apply:       func(c *civ.Civilization) { c.Territory.LandSize += 250 },
	},
	{
		Name:        "Fortification",
		Description: "Walls rise. Defense strength +15.",
		apply:       func(c *civ.Civilization) { c.AddBonus("defense_strength", 15) },
	},
	{
		Name:        "Military Academy",
		Description: "Officers are drilled properly. Defense strength +25.",
		apply:       func(c *civ.Civilization) { c.AddBonus("defense_strength", 25) },
	},
	{
		Name:        "Tech Breakthrough",
		Description: "A leap in understanding. Tech level +1.",
		apply:       func(c *civ.Civilization) {},
		grantsTech:  true,
	},
	{
		Name:        "Trade Routes",
		Description: "Caravans and harbors multiply. Trade efficiency +10.",
		apply:       func(c *civ.Civilization) { c.AddBonus("trade_efficiency", 10) },
	},
	{
		Name:        "Granaries",
		Description: "Less grain rots in storage. Food production +10.",
		apply:       func(c *civ.Civilization) { c.AddBonus("food_production", 10) },
	},
	{
		Name:        "Masonry",
		Description: "Better cuts, less waste. Stone production +10.",
		apply:       func(c *civ.Civilization) { c.AddBonus("stone_production", 10) },
	},
}

// CardByName looks a card up in the pool.
func CardByName(name string) (Card, bool) {
	for _, c := range pool {
		if c.Name == name {
			return c, true
		}
	}
	return Card{}, false
}

// Cards returns the full pool for presentation.
func Cards() []Card {
	out := make([]Card, len(pool))
	copy(out, pool)
	return out
}

// draw picks n distinct card names from the pool.
func draw(src random.Source, n int) []string {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}

	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := src.IntBetween(i, len(idx)-1)
		idx[i], idx[j] = idx[j], idx[i]
		names = append(names, pool[idx[i]].Name)
	}
	return names
}
