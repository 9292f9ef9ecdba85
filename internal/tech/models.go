package tech

import "time"

type SelectionStatus string

const (
	SelectionPending  SelectionStatus = "pending"
	SelectionSelected SelectionStatus = "selected"
)

// CardSelection is one dealt hand of cards. A civilization holds at most
// one pending selection; dealing a new hand replaces it.
type CardSelection struct {
	ID        int             `json:"id"`
	CivID     int             `json:"civ_id"`
	TechLevel int             `json:"tech_level"`
	Cards     []string        `json:"cards"`
	Status    SelectionStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Offers reports whether the selection contains the named card.
func (s *CardSelection) Offers(name string) bool {
	for _, c := range s.Cards {
		if c == name {
			return true
		}
	}
	return false
}
