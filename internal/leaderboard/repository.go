package leaderboard

import (
	"context"
	"log/slog"

	"warciv-server/internal/shared/database"
	apperrors "warciv-server/internal/shared/errors"
)

// scoreExprs are the per-category ranking expressions over the
// civilizations table. Power mirrors Civilization.PowerScore.
var scoreExprs = map[Category]string{
	CategoryPower:     `soldiers*10 + spies*5 + tech_level*50 + land_size/100 + gold/100`,
	CategoryGold:      `gold`,
	CategoryMilitary:  `soldiers*10 + spies*5`,
	CategoryTerritory: `land_size`,
}

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing leaderboard repository")
	return &Repository{
		db:     db,
		logger: logger.With("component", "leaderboard_repository"),
	}
}

// Top returns the n highest-scoring civilizations for a category.
func (r *Repository) Top(ctx context.Context, category Category, n int) ([]Entry, error) {
	expr, ok := scoreExprs[category]
	if !ok {
		return nil, apperrors.Validationf("unknown leaderboard category %q", category)
	}

	query := `
		SELECT id, name, ideology, ` + expr + ` AS score
		FROM civilizations
		ORDER BY score DESC, id ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		r.logger.Error("Failed to query leaderboard", "operation", "top", "category", string(category), "error", err)
		return nil, apperrors.WrapDatabase("failed to load leaderboard", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.CivID, &e.Name, &e.Ideology, &e.Score); err != nil {
			return nil, apperrors.WrapDatabase("failed to scan leaderboard row", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapDatabase("failed to read leaderboard rows", err)
	}
	return entries, nil
}
