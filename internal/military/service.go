package military

import (
	"context"
	"log/slog"

	"warciv-server/internal/civ"
	"warciv-server/internal/economy"
	"warciv-server/internal/ideology"
	"warciv-server/internal/shared/config"
	apperrors "warciv-server/internal/shared/errors"
)

// UnitKind names a trainable unit.
type UnitKind string

const (
	UnitSoldiers UnitKind = "soldiers"
	UnitSpies    UnitKind = "spies"
)

// TrainResult reports a completed training order.
type TrainResult struct {
	Unit  UnitKind          `json:"unit"`
	Count int               `json:"count"`
	Cost  economy.Cost      `json:"cost"`
	Civ   *civ.Civilization `json:"civilization"`
}

type Service struct {
	store  civ.Store
	logger *slog.Logger
}

func NewService(store civ.Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing military service")
	return &Service{
		store:  store,
		logger: logger.With("component", "military_service"),
	}
}

// unitCost prices one unit for the given ideology. Faster soldier training
// stretches the same gold over more recruits.
func unitCost(unit UnitKind, i ideology.Ideology) economy.Cost {
	game := config.GlobalConfig.Game
	switch unit {
	case UnitSoldiers:
		speed := ideology.Modifier(i, ideology.SoldierTrainingSpeed)
		return economy.Cost{
			Gold: int(float64(game.SoldierGoldCost) / speed),
			Food: game.SoldierFoodCost,
		}
	case UnitSpies:
		return economy.Cost{Gold: game.SpyGoldCost, Food: game.SpyFoodCost}
	default:
		return economy.Cost{}
	}
}

// Train recruits units, spending the full order cost atomically.
func (s *Service) Train(ctx context.Context, civID int, unit UnitKind, count int) (*TrainResult, error) {
	logger := s.logger.With("operation", "train", "civ_id", civID, "unit", string(unit), "count", count)

	if unit != UnitSoldiers && unit != UnitSpies {
		return nil, apperrors.Validationf("unknown unit kind %q", unit)
	}
	if count < 1 {
		return nil, apperrors.Validationf("count must be at least 1")
	}

	result := &TrainResult{Unit: unit, Count: count}

	updated, err := s.store.Update(ctx, civID, func(c *civ.Civilization) error {
		per := unitCost(unit, c.Ideology)
		total := economy.Cost{
			Gold:  per.Gold * count,
			Food:  per.Food * count,
			Stone: per.Stone * count,
			Wood:  per.Wood * count,
		}
		if err := economy.Spend(c, total); err != nil {
			return err
		}

		switch unit {
		case UnitSoldiers:
			c.Military.Soldiers += count
		case UnitSpies:
			c.Military.Spies += count
		}

		result.Cost = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Civ = updated
	logger.Info("Units trained", "gold_spent", result.Cost.Gold, "food_spent", result.Cost.Food)
	return result, nil
}
