package siege

import (
	"context"
	"log/slog"

	"warciv-server/internal/civ"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/stats"
	"warciv-server/internal/war"
)

// Report is the siege outcome plus both post-siege snapshots.
type Report struct {
	Outcome  *Outcome          `json:"outcome"`
	Attacker *civ.Civilization `json:"attacker"`
	Defender *civ.Civilization `json:"defender"`
}

type Service struct {
	civs     civ.Store
	wars     war.Ledger
	recorder stats.Recorder
	logger   *slog.Logger
}

func NewService(civs civ.Store, wars war.Ledger, recorder stats.Recorder, logger *slog.Logger) *Service {
	logger.Debug("Initializing siege service")
	return &Service{
		civs:     civs,
		wars:     wars,
		recorder: recorder,
		logger:   logger.With("component", "siege_service"),
	}
}

// Besiege lays siege to a civilization this one is at war with. The
// maintenance spend and both drains commit atomically across both rows.
func (s *Service) Besiege(ctx context.Context, attackerID, defenderID int) (*Report, error) {
	logger := s.logger.With("operation", "besiege", "attacker_id", attackerID, "defender_id", defenderID)

	if attackerID == defenderID {
		return nil, apperrors.SelfTargetf("cannot besiege your own civilization")
	}

	var outcome *Outcome

	// The war check runs inside the pair update so a racing peace
	// acceptance serializes against this siege.
	attacker, defender, err := s.civs.UpdatePair(ctx, attackerID, defenderID, func(a, d *civ.Civilization) error {
		if _, err := s.wars.OngoingBetween(ctx, attackerID, defenderID); err != nil {
			return err
		}
		if a.Military.Soldiers < MinSiegeSoldiers {
			return apperrors.InsufficientForcef("need at least %d soldiers to lay siege, have %d",
				MinSiegeSoldiers, a.Military.Soldiers)
		}
		var err error
		outcome, err = resolveSiege(a, d)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, attackerID, stats.Delta{SiegesLaid: 1})

	logger.Info("Siege resolved",
		"effectiveness", outcome.Effectiveness,
		"gold_drained", outcome.GoldDrained,
		"food_drained", outcome.FoodDrained,
	)

	return &Report{Outcome: outcome, Attacker: attacker, Defender: defender}, nil
}
