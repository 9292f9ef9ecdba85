package economy

import (
	"context"
	"log/slog"

	"warciv-server/internal/civ"
	"warciv-server/internal/ideology"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/random"
)

// WorkKind names a resource-producing action.
type WorkKind string

const (
	WorkGather  WorkKind = "gather"
	WorkFarm    WorkKind = "farm"
	WorkMine    WorkKind = "mine"
	WorkHarvest WorkKind = "harvest"
)

// workYield is the base yield range of each action before ideology scaling.
var workYields = map[WorkKind]struct {
	resource string
	min, max int
}{
	WorkGather:  {"wood", 20, 50},
	WorkFarm:    {"food", 25, 60},
	WorkMine:    {"stone", 15, 45},
	WorkHarvest: {"gold", 10, 35},
}

// WorkResult reports a completed resource action.
type WorkResult struct {
	Kind     WorkKind          `json:"kind"`
	Resource string            `json:"resource"`
	Amount   int               `json:"amount"`
	Civ      *civ.Civilization `json:"civilization"`
}

// TaxResult reports a tax collection.
type TaxResult struct {
	Gold           int               `json:"gold"`
	HappinessDelta int               `json:"happiness_delta"`
	Civ            *civ.Civilization `json:"civilization"`
}

type Service struct {
	store     civ.Store
	newSource func() random.Source
	logger    *slog.Logger
}

func NewService(store civ.Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing economy service")
	return &Service{
		store:     store,
		newSource: random.New,
		logger:    logger.With("component", "economy_service"),
	}
}

// productionFactor is the ideology scaling on resource yields. Communism
// and socialism work harder, monarchy and destruction depress output.
func productionFactor(i ideology.Ideology) float64 {
	return ideology.Modifier(i, ideology.CitizenProductivity)
}

// Work performs one resource-producing action and credits the yield.
func (s *Service) Work(ctx context.Context, civID int, kind WorkKind) (*WorkResult, error) {
	logger := s.logger.With("operation", string(kind), "civ_id", civID)

	yield, ok := workYields[kind]
	if !ok {
		return nil, apperrors.Validationf("unknown work kind %q", kind)
	}

	src := s.newSource()
	result := &WorkResult{Kind: kind, Resource: yield.resource}

	updated, err := s.store.Update(ctx, civID, func(c *civ.Civilization) error {
		base := src.IntBetween(yield.min, yield.max)
		factor := productionFactor(c.Ideology) * (1 + c.Bonus(yield.resource+"_production")/100)
		amount := int(float64(base) * factor)

		switch kind {
		case WorkGather:
			c.Resources.Wood += amount
		case WorkFarm:
			c.Resources.Food += amount
		case WorkMine:
			c.Resources.Stone += amount
		case WorkHarvest:
			c.Resources.Gold += amount
		}

		result.Amount = amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Civ = updated
	logger.Info("Resources produced", "resource", yield.resource, "amount", result.Amount)
	return result, nil
}

// CollectTaxes converts citizen labor into gold at the cost of happiness.
func (s *Service) CollectTaxes(ctx context.Context, civID int) (*TaxResult, error) {
	logger := s.logger.With("operation", "collect_taxes", "civ_id", civID)

	result := &TaxResult{HappinessDelta: -5}

	updated, err := s.store.Update(ctx, civID, func(c *civ.Civilization) error {
		gold := int(float64(c.Population.Citizens) * 0.5 *
			ideology.Modifier(c.Ideology, ideology.TradeProfit) *
			(1 + c.Bonus("trade_efficiency")/100))
		c.Resources.Gold += gold
		c.Population.Happiness -= 5
		result.Gold = gold
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Civ = updated
	logger.Info("Taxes collected", "gold", result.Gold)
	return result, nil
}

// TransferResult reports a completed resource transfer.
type TransferResult struct {
	Amount Cost              `json:"amount"`
	From   *civ.Civilization `json:"from"`
	To     *civ.Civilization `json:"to"`
}

// Transfer moves resources between two civilizations. The debit and the
// credit commit atomically; a shortfall moves nothing.
func (s *Service) Transfer(ctx context.Context, fromID, toID int, amount Cost) (*TransferResult, error) {
	logger := s.logger.With("operation", "transfer", "from_id", fromID, "to_id", toID)

	if amount.Gold < 0 || amount.Food < 0 || amount.Stone < 0 || amount.Wood < 0 {
		return nil, apperrors.Validationf("transfer amounts cannot be negative")
	}
	if amount == (Cost{}) {
		return nil, apperrors.Validationf("nothing to transfer")
	}

	from, to, err := s.store.UpdatePair(ctx, fromID, toID, func(f, t *civ.Civilization) error {
		if err := Spend(f, amount); err != nil {
			return err
		}
		Credit(t, amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Resources transferred",
		"gold", amount.Gold, "food", amount.Food, "stone", amount.Stone, "wood", amount.Wood)
	return &TransferResult{Amount: amount, From: from, To: to}, nil
}
