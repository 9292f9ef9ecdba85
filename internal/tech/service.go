package tech

import (
	"context"
	"log/slog"

	"warciv-server/internal/civ"
	"warciv-server/internal/shared/config"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/random"
	"warciv-server/internal/stats"
)

// Store is the selection persistence surface. *Repository satisfies it.
type Store interface {
	ReplacePending(ctx context.Context, civID, techLevel int, cards []string) (*CardSelection, error)
	GetPending(ctx context.Context, civID int) (*CardSelection, error)
	MarkSelected(ctx context.Context, selectionID int) error
	Reopen(ctx context.Context, selectionID int) error
}

// ChoiceResult reports a consumed card.
type ChoiceResult struct {
	Card       string            `json:"card"`
	TechGained bool              `json:"tech_gained"`
	NextHand   *CardSelection    `json:"next_hand,omitempty"`
	Civ        *civ.Civilization `json:"civilization"`
}

type Service struct {
	store     Store
	civs      civ.Store
	recorder  stats.Recorder
	newSource func() random.Source
	logger    *slog.Logger
}

var _ civ.SelectionDealer = (*Service)(nil)

func NewService(store Store, civs civ.Store, recorder stats.Recorder, logger *slog.Logger) *Service {
	logger.Debug("Initializing tech service")
	return &Service{
		store:     store,
		civs:      civs,
		recorder:  recorder,
		newSource: random.New,
		logger:    logger.With("component", "tech_service"),
	}
}

// DealSelection deals a fresh hand for the given tech level, replacing any
// pending one. Civilizations at the tech cap draw no further cards.
func (s *Service) DealSelection(ctx context.Context, civID, techLevel int) error {
	if techCap := config.GlobalConfig.Game.TechCap; techLevel >= techCap {
		return apperrors.New(apperrors.ErrorTypeTechCap,
			"tech level %d has reached the cap of %d", techLevel, techCap)
	}

	cards := draw(s.newSource(), SelectionSize)
	if _, err := s.store.ReplacePending(ctx, civID, techLevel, cards); err != nil {
		return err
	}

	s.logger.Info("Card selection dealt",
		"operation", "deal_selection", "civ_id", civID, "tech_level", techLevel, "cards", cards)
	return nil
}

// PendingSelection returns the civilization's open hand.
func (s *Service) PendingSelection(ctx context.Context, civID int) (*CardSelection, error) {
	return s.store.GetPending(ctx, civID)
}

// Choose consumes the pending selection and applies the named card. The
// hand is consumed before the effect lands so a raced duplicate choice
// reports no_selection instead of applying twice; if the effect then
// fails, the hand is reopened so it is not lost.
func (s *Service) Choose(ctx context.Context, civID int, cardName string) (*ChoiceResult, error) {
	logger := s.logger.With("operation", "choose", "civ_id", civID, "card", cardName)

	selection, err := s.store.GetPending(ctx, civID)
	if err != nil {
		return nil, err
	}
	if !selection.Offers(cardName) {
		return nil, apperrors.New(apperrors.ErrorTypeInvalidCard,
			"card %q is not in the current selection", cardName)
	}
	card, ok := CardByName(cardName)
	if !ok {
		return nil, apperrors.New(apperrors.ErrorTypeInvalidCard, "unknown card %q", cardName)
	}

	if err := s.store.MarkSelected(ctx, selection.ID); err != nil {
		return nil, err
	}

	techCap := config.GlobalConfig.Game.TechCap
	result := &ChoiceResult{Card: cardName}

	updated, err := s.civs.Update(ctx, civID, func(c *civ.Civilization) error {
		card.apply(c)
		if card.grantsTech && c.Military.TechLevel < techCap {
			c.Military.TechLevel++
			result.TechGained = true
		}
		return nil
	})
	if err != nil {
		if reopenErr := s.store.Reopen(ctx, selection.ID); reopenErr != nil {
			logger.Error("Failed to reopen selection after apply failure", "error", reopenErr)
		}
		return nil, err
	}
	result.Civ = updated

	if result.TechGained && updated.Military.TechLevel < techCap {
		if err := s.DealSelection(ctx, civID, updated.Military.TechLevel); err != nil {
			logger.Warn("Failed to deal follow-up selection", "error", err)
		} else if next, err := s.store.GetPending(ctx, civID); err == nil {
			result.NextHand = next
		}
	}

	s.recorder.Record(ctx, civID, stats.Delta{CardsChosen: 1})

	logger.Info("Card chosen", "tech_gained", result.TechGained)
	return result, nil
}
