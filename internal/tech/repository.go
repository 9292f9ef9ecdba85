package tech

import (
	"context"
	"database/sql"
	"encoding/json"
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
	logger.Debug("Initializing tech repository")
	return &Repository{
		db:     db,
		logger: logger.With("component", "tech_repository"),
	}
}

const selectionColumns = `id, civ_id, tech_level, cards, status, created_at`

func scanSelection(row interface{ Scan(...interface{}) error }) (*CardSelection, error) {
	var (
		s        CardSelection
		cardsRaw []byte
	)
	err := row.Scan(&s.ID, &s.CivID, &s.TechLevel, &cardsRaw, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cardsRaw, &s.Cards); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReplacePending deals a fresh pending selection, discarding any earlier
// pending hand in the same transaction.
func (r *Repository) ReplacePending(ctx context.Context, civID, techLevel int, cards []string) (*CardSelection, error) {
	logger := r.logger.With("operation", "replace_pending", "civ_id", civID)

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabase("failed to begin transaction", err)
	}
	defer rollback(tx, logger)

	_, err = tx.ExecContext(ctx,
		`DELETE FROM card_selections WHERE civ_id = $1 AND status = 'pending'`, civID)
	if err != nil {
		logger.Error("Failed to discard pending selection", "error", err)
		return nil, apperrors.WrapDatabase("failed to discard pending selection", err)
	}

	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to encode cards", err)
	}

	query := `
		INSERT INTO card_selections (civ_id, tech_level, cards, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING ` + selectionColumns

	selection, err := scanSelection(tx.QueryRowContext(ctx, query, civID, techLevel, cardsJSON))
	if err != nil {
		logger.Error("Failed to create selection", "error", err)
		return nil, apperrors.WrapDatabase("failed to create card selection", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.WrapDatabase("failed to commit transaction", err)
	}
	return selection, nil
}

// GetPending returns the civilization's open selection.
func (r *Repository) GetPending(ctx context.Context, civID int) (*CardSelection, error) {
	query := `SELECT ` + selectionColumns + `
		FROM card_selections WHERE civ_id = $1 AND status = 'pending'`

	selection, err := scanSelection(r.db.QueryRowContext(ctx, query, civID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrorTypeNoSelection,
				"no pending card selection for civilization %d", civID)
		}
		r.logger.Error("Failed to load selection", "operation", "get_pending", "civ_id", civID, "error", err)
		return nil, apperrors.WrapDatabase("failed to load card selection", err)
	}
	return selection, nil
}

// MarkSelected consumes a pending selection. A selection already consumed,
// or replaced by a newer deal, reports no_selection; the guard makes
// concurrent choices on the same hand single-use.
func (r *Repository) MarkSelected(ctx context.Context, selectionID int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE card_selections SET status = 'selected' WHERE id = $1 AND status = 'pending'`,
		selectionID)
	if err != nil {
		r.logger.Error("Failed to consume selection", "operation", "mark_selected", "selection_id", selectionID, "error", err)
		return apperrors.WrapDatabase("failed to consume card selection", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WrapDatabase("failed to consume card selection", err)
	}
	if affected == 0 {
		return apperrors.New(apperrors.ErrorTypeNoSelection,
			"card selection %d is no longer pending", selectionID)
	}
	return nil
}

// Reopen restores a consumed selection to pending. Choose compensates
// with it when the card effect fails after the hand was consumed.
func (r *Repository) Reopen(ctx context.Context, selectionID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE card_selections SET status = 'pending' WHERE id = $1 AND status = 'selected'`,
		selectionID)
	if err != nil {
		r.logger.Error("Failed to reopen selection", "operation", "reopen", "selection_id", selectionID, "error", err)
		return apperrors.WrapDatabase("failed to reopen card selection", err)
	}
	return nil
}

func rollback(tx *database.Tx, logger *slog.Logger) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		logger.Error("Failed to rollback transaction", "error", err)
	}
}
