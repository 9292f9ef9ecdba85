package civ

import (
	"context"
	"log/slog"

	"warciv-server/internal/ideology"
	"warciv-server/internal/shared/config"
	apperrors "warciv-server/internal/shared/errors"
)

// Store is the persistence surface the service and the battle systems
// consume. *Repository satisfies it; tests substitute in-memory fakes.
type Store interface {
	Create(ctx context.Context, c *Civilization) (*Civilization, error)
	GetByID(ctx context.Context, id int) (*Civilization, error)
	Touch(ctx context.Context, id int) error
	Update(ctx context.Context, id int, fn func(c *Civilization) error) (*Civilization, error)
	UpdatePair(ctx context.Context, aID, bID int, fn func(a, b *Civilization) error) (*Civilization, *Civilization, error)
}

// SelectionDealer deals a tech card selection to a civilization. The tech
// service implements it; founding a civilization deals the first hand.
type SelectionDealer interface {
	DealSelection(ctx context.Context, civID, techLevel int) error
}

type Service struct {
	store  Store
	dealer SelectionDealer
	logger *slog.Logger
}

func NewService(store Store, dealer SelectionDealer, logger *slog.Logger) *Service {
	logger.Debug("Initializing civilization service")
	return &Service{
		store:  store,
		dealer: dealer,
		logger: logger.With("component", "civ_service"),
	}
}

// Found creates a civilization with the configured starting state and deals
// its first tech card selection.
func (s *Service) Found(ctx context.Context, playerID int, name string) (*Civilization, error) {
	logger := s.logger.With("operation", "found", "civ_id", playerID, "name", name)

	if name == "" {
		return nil, apperrors.Validation("civilization name is required")
	}
	if len(name) > 64 {
		return nil, apperrors.Validationf("civilization name too long: %d characters", len(name))
	}

	game := config.GlobalConfig.Game

	created, err := s.store.Create(ctx, &Civilization{
		ID:       playerID,
		Name:     name,
		Ideology: ideology.None,
		Resources: Resources{
			Gold:  game.StartingGold,
			Food:  game.StartingFood,
			Stone: game.StartingStone,
			Wood:  game.StartingWood,
		},
		Population: Population{
			Citizens:  game.StartingCitizens,
			Happiness: 50,
			Hunger:    0,
		},
		Military: Military{
			Soldiers:  game.StartingSoldiers,
			Spies:     game.StartingSpies,
			TechLevel: 1,
		},
		Territory:  Territory{LandSize: game.StartingLand},
		Bonuses:    map[string]float64{},
		HyperItems: []string{},
	})
	if err != nil {
		return nil, err
	}

	if err := s.dealer.DealSelection(ctx, created.ID, created.Military.TechLevel); err != nil {
		// The civilization exists; a missing first hand is recoverable on
		// the next tech level gain.
		logger.Error("Failed to deal founding card selection", "error", err)
	}

	logger.Info("Civilization founded")
	return created, nil
}

// Get loads a civilization and records the activity.
func (s *Service) Get(ctx context.Context, id int) (*Civilization, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Touch(ctx, id); err != nil {
		s.logger.Warn("Failed to record activity", "operation", "get", "civ_id", id, "error", err)
	}

	return c, nil
}

// SetIdeology locks in a civilization's ideology. The choice is permanent.
func (s *Service) SetIdeology(ctx context.Context, id int, name string) (*Civilization, error) {
	logger := s.logger.With("operation", "set_ideology", "civ_id", id, "ideology", name)

	if !ideology.Valid(name) {
		return nil, apperrors.Validationf("unknown ideology %q", name)
	}

	updated, err := s.store.Update(ctx, id, func(c *Civilization) error {
		if c.Ideology != ideology.None {
			return apperrors.AlreadyExistsf("ideology already set to %s", c.Ideology)
		}
		c.Ideology = ideology.Ideology(name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Ideology chosen")
	return updated, nil
}
