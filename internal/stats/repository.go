package stats

import (
	"context"
	"log/slog"

	"warciv-server/internal/shared/database"
	apperrors "warciv-server/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing stats repository")
	return &Repository{
		db:     db,
		logger: logger.With("component", "stats_repository"),
	}
}

// Add increments a civilization's counters, creating the row on first use.
func (r *Repository) Add(ctx context.Context, civID int, d Delta) error {
	query := `
		INSERT INTO civ_stats (
			civ_id, wars_declared, wars_won, battles_fought, battles_won,
			sieges_laid, infiltrations, soldiers_lost, spies_lost, cards_chosen
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (civ_id) DO UPDATE SET
			wars_declared  = civ_stats.wars_declared + EXCLUDED.wars_declared,
			wars_won       = civ_stats.wars_won + EXCLUDED.wars_won,
			battles_fought = civ_stats.battles_fought + EXCLUDED.battles_fought,
			battles_won    = civ_stats.battles_won + EXCLUDED.battles_won,
			sieges_laid    = civ_stats.sieges_laid + EXCLUDED.sieges_laid,
			infiltrations  = civ_stats.infiltrations + EXCLUDED.infiltrations,
			soldiers_lost  = civ_stats.soldiers_lost + EXCLUDED.soldiers_lost,
			spies_lost     = civ_stats.spies_lost + EXCLUDED.spies_lost,
			cards_chosen   = civ_stats.cards_chosen + EXCLUDED.cards_chosen`

	_, err := r.db.ExecContext(ctx, query, civID,
		d.WarsDeclared, d.WarsWon, d.BattlesFought, d.BattlesWon,
		d.SiegesLaid, d.Infiltrations, d.SoldiersLost, d.SpiesLost, d.CardsChosen)
	if err != nil {
		r.logger.Error("Failed to add stats", "operation", "add", "civ_id", civID, "error", err)
		return apperrors.WrapDatabase("failed to update statistics", err)
	}
	return nil
}

// Get returns a civilization's counters. Civilizations with no recorded
// activity get a zero row, not an error.
func (r *Repository) Get(ctx context.Context, civID int) (*Statistics, error) {
	query := `
		SELECT civ_id, wars_declared, wars_won, battles_fought, battles_won,
			sieges_laid, infiltrations, soldiers_lost, spies_lost, cards_chosen
		FROM civ_stats WHERE civ_id = $1`

	var s Statistics
	err := r.db.QueryRowContext(ctx, query, civID).Scan(
		&s.CivID, &s.WarsDeclared, &s.WarsWon, &s.BattlesFought, &s.BattlesWon,
		&s.SiegesLaid, &s.Infiltrations, &s.SoldiersLost, &s.SpiesLost, &s.CardsChosen)
	if err != nil {
		if isNoRows(err) {
			return &Statistics{CivID: civID}, nil
		}
		r.logger.Error("Failed to load stats", "operation", "get", "civ_id", civID, "error", err)
		return nil, apperrors.WrapDatabase("failed to load statistics", err)
	}
	return &s, nil
}
