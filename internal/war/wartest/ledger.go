// Package wartest provides an in-memory war.Ledger honoring the same
// invariants as the Postgres repository: one ongoing war per pair, one
// pending offer per ordered pair, and the happiness side effects of
// declarations and peace.
package wartest

import (
	"context"
	"sync"
	"time"

	"warciv-server/internal/civ"
	"warciv-server/internal/civ/civtest"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/war"
)

type Ledger struct {
	mu     sync.Mutex
	wars   []war.War
	offers []war.PeaceOffer
	nextID int

	// Civs, when set, receives the happiness side effects.
	Civs *civtest.Store
}

func NewLedger(civs *civtest.Store) *Ledger {
	return &Ledger{Civs: civs, nextID: 1}
}

func (l *Ledger) Declare(ctx context.Context, attackerID, defenderID int) (*war.War, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Civs != nil {
		for _, id := range []int{attackerID, defenderID} {
			if _, err := l.Civs.GetByID(ctx, id); err != nil {
				return nil, err
			}
		}
	}

	for _, w := range l.wars {
		if w.Status == war.StatusOngoing && w.Involves(attackerID, defenderID) {
			return nil, apperrors.AlreadyAtWarf("already at war with civilization %d", defenderID)
		}
	}

	w := war.War{
		ID:         l.nextID,
		AttackerID: attackerID,
		DefenderID: defenderID,
		Status:     war.StatusOngoing,
		StartedAt:  time.Now(),
	}
	l.nextID++
	l.wars = append(l.wars, w)

	l.adjustHappiness(ctx, attackerID, -5)
	l.adjustHappiness(ctx, defenderID, -10)

	return &w, nil
}

func (l *Ledger) OngoingBetween(ctx context.Context, a, b int) (*war.War, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ongoingLocked(a, b)
}

func (l *Ledger) ongoingLocked(a, b int) (*war.War, error) {
	for i := range l.wars {
		if l.wars[i].Status == war.StatusOngoing && l.wars[i].Involves(a, b) {
			w := l.wars[i]
			return &w, nil
		}
	}
	return nil, apperrors.NotAtWarf("no ongoing war with civilization %d", b)
}

func (l *Ledger) ListOngoing(ctx context.Context, civID int) ([]war.War, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []war.War
	for _, w := range l.wars {
		if w.Status == war.StatusOngoing && (w.AttackerID == civID || w.DefenderID == civID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (l *Ledger) EndWithVictory(ctx context.Context, winnerID, loserID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.wars {
		if l.wars[i].Status == war.StatusOngoing && l.wars[i].Involves(winnerID, loserID) {
			now := time.Now()
			l.wars[i].Status = war.StatusVictory
			l.wars[i].EndedAt = &now
			return nil
		}
	}
	return apperrors.NotAtWarf("no ongoing war between %d and %d", winnerID, loserID)
}

func (l *Ledger) CreateOffer(ctx context.Context, offererID, receiverID int) (*war.PeaceOffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, o := range l.offers {
		if o.Status == war.OfferPending && o.OffererID == offererID && o.ReceiverID == receiverID {
			return nil, apperrors.New(apperrors.ErrorTypeDuplicateOffer,
				"peace offer to civilization %d already pending", receiverID)
		}
	}

	o := war.PeaceOffer{
		ID:         l.nextID,
		OffererID:  offererID,
		ReceiverID: receiverID,
		Status:     war.OfferPending,
		OfferedAt:  time.Now(),
	}
	l.nextID++
	l.offers = append(l.offers, o)
	return &o, nil
}

func (l *Ledger) PendingOffersFor(ctx context.Context, receiverID int) ([]war.PeaceOffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []war.PeaceOffer
	for _, o := range l.offers {
		if o.Status == war.OfferPending && o.ReceiverID == receiverID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (l *Ledger) Accept(ctx context.Context, receiverID, offererID int) (*war.War, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var offer *war.PeaceOffer
	for i := range l.offers {
		if l.offers[i].Status == war.OfferPending &&
			l.offers[i].OffererID == offererID && l.offers[i].ReceiverID == receiverID {
			offer = &l.offers[i]
			break
		}
	}
	if offer == nil {
		return nil, apperrors.New(apperrors.ErrorTypeNoPendingOffer,
			"no pending peace offer from civilization %d", offererID)
	}

	w, err := l.ongoingLocked(offererID, receiverID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	offer.Status = war.OfferAccepted
	offer.RespondedAt = &now

	for i := range l.wars {
		if l.wars[i].ID == w.ID {
			l.wars[i].Status = war.StatusPeace
			l.wars[i].EndedAt = &now
			w = &l.wars[i]
			break
		}
	}

	l.adjustHappiness(ctx, offererID, 15)
	l.adjustHappiness(ctx, receiverID, 15)

	out := *w
	return &out, nil
}

func (l *Ledger) adjustHappiness(ctx context.Context, civID, delta int) {
	if l.Civs == nil {
		return
	}
	_, _ = l.Civs.Update(ctx, civID, func(c *civ.Civilization) error {
		c.Population.Happiness += delta
		return nil
	})
}
