package war

import (
	"context"
	"log/slog"

	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/stats"
)

// Ledger is the persistence surface for wars and peace offers.
// *Repository satisfies it; tests substitute fakes.
type Ledger interface {
	Declare(ctx context.Context, attackerID, defenderID int) (*War, error)
	OngoingBetween(ctx context.Context, a, b int) (*War, error)
	ListOngoing(ctx context.Context, civID int) ([]War, error)
	EndWithVictory(ctx context.Context, winnerID, loserID int) error
	CreateOffer(ctx context.Context, offererID, receiverID int) (*PeaceOffer, error)
	PendingOffersFor(ctx context.Context, receiverID int) ([]PeaceOffer, error)
	Accept(ctx context.Context, receiverID, offererID int) (*War, error)
}

type Service struct {
	ledger   Ledger
	recorder stats.Recorder
	logger   *slog.Logger
}

func NewService(ledger Ledger, recorder stats.Recorder, logger *slog.Logger) *Service {
	logger.Debug("Initializing war service")
	return &Service{
		ledger:   ledger,
		recorder: recorder,
		logger:   logger.With("component", "war_service"),
	}
}

// Declare opens a war against another civilization.
func (s *Service) Declare(ctx context.Context, attackerID, defenderID int) (*War, error) {
	logger := s.logger.With("operation", "declare", "attacker_id", attackerID, "defender_id", defenderID)

	if attackerID == defenderID {
		return nil, apperrors.SelfTargetf("cannot declare war on yourself")
	}

	w, err := s.ledger.Declare(ctx, attackerID, defenderID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, attackerID, stats.Delta{WarsDeclared: 1})

	logger.Info("War declared", "war_id", w.ID)
	return w, nil
}

// OfferPeace records a pending peace offer for the receiver to accept.
// There must be an ongoing war between the two.
func (s *Service) OfferPeace(ctx context.Context, offererID, receiverID int) (*PeaceOffer, error) {
	logger := s.logger.With("operation", "offer_peace", "offerer_id", offererID, "receiver_id", receiverID)

	if offererID == receiverID {
		return nil, apperrors.SelfTargetf("cannot offer peace to yourself")
	}

	if _, err := s.ledger.OngoingBetween(ctx, offererID, receiverID); err != nil {
		return nil, err
	}

	offer, err := s.ledger.CreateOffer(ctx, offererID, receiverID)
	if err != nil {
		return nil, err
	}

	logger.Info("Peace offered", "offer_id", offer.ID)
	return offer, nil
}

// AcceptPeace resolves a pending offer addressed to the receiver. The war
// ends in peace and both populations gain happiness, atomically.
func (s *Service) AcceptPeace(ctx context.Context, receiverID, offererID int) (*War, error) {
	logger := s.logger.With("operation", "accept_peace", "receiver_id", receiverID, "offerer_id", offererID)

	if receiverID == offererID {
		return nil, apperrors.SelfTargetf("cannot accept your own peace offer")
	}

	w, err := s.ledger.Accept(ctx, receiverID, offererID)
	if err != nil {
		return nil, err
	}

	logger.Info("Peace concluded", "war_id", w.ID)
	return w, nil
}

// WarsOf lists a civilization's ongoing wars.
func (s *Service) WarsOf(ctx context.Context, civID int) ([]War, error) {
	return s.ledger.ListOngoing(ctx, civID)
}

// OffersFor lists peace offers awaiting the civilization's response.
func (s *Service) OffersFor(ctx context.Context, civID int) ([]PeaceOffer, error) {
	return s.ledger.PendingOffersFor(ctx, civID)
}
