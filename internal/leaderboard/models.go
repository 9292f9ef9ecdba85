package leaderboard

import "warciv-server/internal/ideology"

// Category selects the ranking dimension.
type Category string

const (
	CategoryPower     Category = "power"
	CategoryGold      Category = "gold"
	CategoryMilitary  Category = "military"
	CategoryTerritory Category = "territory"
)

// ValidCategory reports whether s names a ranking.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryPower, CategoryGold, CategoryMilitary, CategoryTerritory:
		return true
	}
	return false
}

// Entry is one leaderboard row.
type Entry struct {
	Rank     int               `json:"rank"`
	CivID    int               `json:"civ_id"`
	Name     string            `json:"name"`
	Ideology ideology.Ideology `json:"ideology"`
	Score    int               `json:"score"`
}
