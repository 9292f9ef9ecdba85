package war

import "time"

// Status is the lifecycle state of a war.
type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusPeace   Status = "peace"
	StatusVictory Status = "victory"
)

// War records a declared conflict between two civilizations. At most one
// ongoing war may exist per unordered pair.
type War struct {
	ID         int        `json:"id"`
	AttackerID int        `json:"attacker_id"`
	DefenderID int        `json:"defender_id"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

// Involves reports whether the war is between the two given civilizations,
// in either orientation.
func (w *War) Involves(a, b int) bool {
	return (w.AttackerID == a && w.DefenderID == b) ||
		(w.AttackerID == b && w.DefenderID == a)
}

// OfferStatus is the lifecycle state of a peace offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
)

// PeaceOffer records one civilization's proposal to end a war. At most one
// pending offer may exist per ordered (offerer, receiver) pair.
type PeaceOffer struct {
	ID          int         `json:"id"`
	OffererID   int         `json:"offerer_id"`
	ReceiverID  int         `json:"receiver_id"`
	Status      OfferStatus `json:"status"`
	OfferedAt   time.Time   `json:"offered_at"`
	RespondedAt *time.Time  `json:"responded_at,omitempty"`
}
