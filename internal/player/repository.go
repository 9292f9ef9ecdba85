package player

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"warciv-server/internal/shared/database"
	apperrors "warciv-server/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing player repository")
	return &Repository{
		db:     db,
		logger: logger.With("component", "player_repository"),
	}
}

const playerColumns = `id, username, email, display_name, avatar_url, created_at, updated_at`

func scanPlayer(row interface{ Scan(...interface{}) error }) (*Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.DisplayName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, username, email, displayName string, avatarURL *string) (*Player, error) {
	logger := r.logger.With("operation", "create", "username", username)

	query := `
		INSERT INTO players (username, email, display_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + playerColumns

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, username, email, displayName, avatarURL))
	if err != nil {
		logger.Error("Failed to create player", "error", err)
		return nil, apperrors.WrapDatabase("failed to create player", err)
	}

	logger.Info("Player created", "player_id", p.ID)
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("player %d not found", id)
		}
		r.logger.Error("Failed to load player", "operation", "get_by_id", "player_id", id, "error", err)
		return nil, apperrors.WrapDatabase("failed to load player", err)
	}
	return p, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE email = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("no player with that email")
		}
		r.logger.Error("Failed to find player by email", "operation", "find_by_email", "error", err)
		return nil, apperrors.WrapDatabase("failed to find player", err)
	}
	return p, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count players", "operation", "count", "error", err)
		return 0, apperrors.WrapDatabase("failed to count players", err)
	}
	return count, nil
}
