package stealth

import (
	"context"
	"log/slog"

	"warciv-server/internal/civ"
	"warciv-server/internal/shared/config"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/random"
	"warciv-server/internal/stats"
)

// Report is the infiltration outcome plus the attacker's fresh snapshot.
// The defender's state is withheld; spies only report what they touched.
type Report struct {
	Outcome  *Outcome          `json:"outcome"`
	Attacker *civ.Civilization `json:"attacker"`
}

type Service struct {
	civs      civ.Store
	dealer    civ.SelectionDealer
	recorder  stats.Recorder
	newSource func() random.Source
	logger    *slog.Logger
}

func NewService(civs civ.Store, dealer civ.SelectionDealer, recorder stats.Recorder, logger *slog.Logger) *Service {
	logger.Debug("Initializing stealth service")
	return &Service{
		civs:      civs,
		dealer:    dealer,
		recorder:  recorder,
		newSource: random.New,
		logger:    logger.With("component", "stealth_service"),
	}
}

// Infiltrate sends spies against another civilization. No war is required;
// espionage is always on the table.
func (s *Service) Infiltrate(ctx context.Context, attackerID, defenderID int) (*Report, error) {
	logger := s.logger.With("operation", "infiltrate", "attacker_id", attackerID, "defender_id", defenderID)

	if attackerID == defenderID {
		return nil, apperrors.SelfTargetf("cannot infiltrate your own civilization")
	}

	techCap := config.GlobalConfig.Game.TechCap
	src := s.newSource()
	var outcome *Outcome

	attacker, _, err := s.civs.UpdatePair(ctx, attackerID, defenderID, func(a, d *civ.Civilization) error {
		if a.Military.Spies < MinSpies {
			return apperrors.InsufficientForcef("need at least %d spies to infiltrate, have %d",
				MinSpies, a.Military.Spies)
		}
		outcome = resolveInfiltration(a, d, src, techCap)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.TechGained {
		if err := s.dealer.DealSelection(ctx, attackerID, attacker.Military.TechLevel); err != nil {
			logger.Warn("Failed to deal card selection after intel gain", "error", err)
		}
	}

	s.recorder.Record(ctx, attackerID, stats.Delta{
		Infiltrations: 1,
		SpiesLost:     outcome.SpiesLost,
	})

	logger.Info("Infiltration resolved",
		"success", outcome.Success,
		"effect", outcome.Effect,
		"spies_lost", outcome.SpiesLost,
		"tech_gained", outcome.TechGained,
	)

	return &Report{Outcome: outcome, Attacker: attacker}, nil
}
