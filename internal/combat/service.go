package combat

import (
	"context"
	"log/slog"

	"warciv-server/internal/civ"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/random"
	"warciv-server/internal/stats"
	"warciv-server/internal/war"
)

// Report is the battle outcome plus both post-battle snapshots.
type Report struct {
	Outcome  *Outcome          `json:"outcome"`
	Attacker *civ.Civilization `json:"attacker"`
	Defender *civ.Civilization `json:"defender"`
}

type Service struct {
	civs      civ.Store
	wars      war.Ledger
	recorder  stats.Recorder
	newSource func() random.Source
	logger    *slog.Logger
}

func NewService(civs civ.Store, wars war.Ledger, recorder stats.Recorder, logger *slog.Logger) *Service {
	logger.Debug("Initializing combat service")
	return &Service{
		civs:      civs,
		wars:      wars,
		recorder:  recorder,
		newSource: random.New,
		logger:    logger.With("component", "combat_service"),
	}
}

// Attack resolves a direct battle between two civilizations at war. All
// state changes of one battle commit atomically across both rows.
func (s *Service) Attack(ctx context.Context, attackerID, defenderID int) (*Report, error) {
	logger := s.logger.With("operation", "attack", "attacker_id", attackerID, "defender_id", defenderID)

	if attackerID == defenderID {
		return nil, apperrors.SelfTargetf("cannot attack your own civilization")
	}

	src := s.newSource()
	var outcome *Outcome

	// The war check runs inside the pair update so a racing peace
	// acceptance, which rewrites both civilization rows, serializes
	// against this battle instead of slipping between check and commit.
	attacker, defender, err := s.civs.UpdatePair(ctx, attackerID, defenderID, func(a, d *civ.Civilization) error {
		if _, err := s.wars.OngoingBetween(ctx, attackerID, defenderID); err != nil {
			return err
		}
		if a.Military.Soldiers < MinAttackSoldiers {
			return apperrors.InsufficientForcef("need at least %d soldiers to attack, have %d",
				MinAttackSoldiers, a.Military.Soldiers)
		}
		outcome = resolveBattle(a, d, src)
		if outcome.WarWon {
			if err := s.wars.EndWithVictory(ctx, attackerID, defenderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, attackerID, stats.Delta{
		BattlesFought: 1,
		BattlesWon:    boolToInt(outcome.Victory),
		WarsWon:       boolToInt(outcome.WarWon),
		SoldiersLost:  outcome.AttackerLosses,
	})
	s.recorder.Record(ctx, defenderID, stats.Delta{
		BattlesFought: 1,
		BattlesWon:    boolToInt(!outcome.Victory),
		SoldiersLost:  outcome.DefenderLosses,
	})

	logger.Info("Battle resolved",
		"victory", outcome.Victory,
		"margin", outcome.Margin,
		"attacker_losses", outcome.AttackerLosses,
		"defender_losses", outcome.DefenderLosses,
		"war_won", outcome.WarWon,
	)

	return &Report{Outcome: outcome, Attacker: attacker, Defender: defender}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
