package civ

import (
	"time"

	"warciv-server/internal/ideology"
)

// Resources are the four stockpiles a civilization spends and loots.
// Balances may go negative through battle and siege drains; only explicit
// spending is guarded against overdraft.
type Resources struct {
	Gold  int `json:"gold"`
	Food  int `json:"food"`
	Stone int `json:"stone"`
	Wood  int `json:"wood"`
}

type Population struct {
	Citizens  int `json:"citizens"`
	Happiness int `json:"happiness"`
	Hunger    int `json:"hunger"`
}

type Military struct {
	Soldiers  int `json:"soldiers"`
	Spies     int `json:"spies"`
	TechLevel int `json:"tech_level"`
}

type Territory struct {
	LandSize int `json:"land_size"`
}

// Civilization is the full persistent state of one player's nation.
// The ID is the owning player's ID.
type Civilization struct {
	ID         int                `json:"id"`
	Name       string             `json:"name"`
	Ideology   ideology.Ideology  `json:"ideology"`
	Resources  Resources          `json:"resources"`
	Population Population         `json:"population"`
	Military   Military           `json:"military"`
	Territory  Territory          `json:"territory"`
	Bonuses    map[string]float64 `json:"bonuses"`
	HyperItems []string           `json:"hyper_items"`
	CreatedAt  time.Time          `json:"created_at"`
	LastActive time.Time          `json:"last_active"`
}

// Bonus returns an accumulated bonus value, 0 when absent.
func (c *Civilization) Bonus(name string) float64 {
	if c.Bonuses == nil {
		return 0
	}
	return c.Bonuses[name]
}

// AddBonus accumulates a named bonus additively.
func (c *Civilization) AddBonus(name string, value float64) {
	if c.Bonuses == nil {
		c.Bonuses = make(map[string]float64)
	}
	c.Bonuses[name] += value
}

// PowerScore is the composite ranking used by the leaderboard.
func (c *Civilization) PowerScore() int {
	return c.Military.Soldiers*10 +
		c.Military.Spies*5 +
		c.Military.TechLevel*50 +
		c.Territory.LandSize/100 +
		c.Resources.Gold/100
}

// MilitaryScore ranks raw military weight.
func (c *Civilization) MilitaryScore() int {
	return c.Military.Soldiers*10 + c.Military.Spies*5
}

// DisplayHappiness clamps happiness into [0, 100] for presentation. The
// stored value is kept unclamped so repeated penalties and bonuses cancel
// exactly.
func (c *Civilization) DisplayHappiness() int {
	switch {
	case c.Population.Happiness < 0:
		return 0
	case c.Population.Happiness > 100:
		return 100
	default:
		return c.Population.Happiness
	}
}
