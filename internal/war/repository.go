package war

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"warciv-server/internal/shared/database"
	apperrors "warciv-server/internal/shared/errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing war repository")
	return &Repository{
		db:     db,
		logger: logger.With("component", "war_repository"),
	}
}

const warColumns = `id, attacker_id, defender_id, status, started_at, ended_at`

func scanWar(row interface{ Scan(...interface{}) error }) (*War, error) {
	var w War
	err := row.Scan(&w.ID, &w.AttackerID, &w.DefenderID, &w.Status, &w.StartedAt, &w.EndedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Declare opens a war and applies the declaration happiness penalties in a
// single transaction. A second ongoing war for the pair is rejected by the
// partial unique index.
func (r *Repository) Declare(ctx context.Context, attackerID, defenderID int) (*War, error) {
	logger := r.logger.With("operation", "declare", "attacker_id", attackerID, "defender_id", defenderID)

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabase("failed to begin transaction", err)
	}
	defer rollback(tx, logger)

	// Lock both civilizations in ID order; this both validates existence
	// and serializes against battle commits touching the same rows.
	firstID, secondID := attackerID, defenderID
	if defenderID < attackerID {
		firstID, secondID = defenderID, attackerID
	}
	for _, id := range []int{firstID, secondID} {
		var locked int
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM civilizations WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, apperrors.NotFoundf("civilization %d not found", id)
			}
			return nil, apperrors.WrapDatabase("failed to lock civilization", err)
		}
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO wars (attacker_id, defender_id, status)
		VALUES ($1, $2, 'ongoing')
		RETURNING `+warColumns, attackerID, defenderID)

	w, err := scanWar(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			logger.Info("War already ongoing for pair")
			return nil, apperrors.AlreadyAtWarf("already at war with civilization %d", defenderID)
		}
		logger.Error("Failed to insert war", "error", err)
		return nil, apperrors.WrapDatabase("failed to declare war", err)
	}

	// Declaring a war unsettles both populations, the defender more so.
	if _, err := tx.ExecContext(ctx,
		`UPDATE civilizations SET happiness = happiness - 5 WHERE id = $1`, attackerID); err != nil {
		return nil, apperrors.WrapDatabase("failed to apply declaration penalty", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE civilizations SET happiness = happiness - 10 WHERE id = $1`, defenderID); err != nil {
		return nil, apperrors.WrapDatabase("failed to apply declaration penalty", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.WrapDatabase("failed to commit declaration", err)
	}

	logger.Info("War declared", "war_id", w.ID)
	return w, nil
}

// OngoingBetween returns the ongoing war between two civilizations in
// either orientation, or a not_at_war error.
func (r *Repository) OngoingBetween(ctx context.Context, a, b int) (*War, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+warColumns+` FROM wars
		WHERE status = 'ongoing'
		  AND ((attacker_id = $1 AND defender_id = $2)
		    OR (attacker_id = $2 AND defender_id = $1))`, a, b)

	w, err := scanWar(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotAtWarf("no ongoing war with civilization %d", b)
		}
		r.logger.Error("Failed to query ongoing war", "operation", "ongoing_between", "error", err)
		return nil, apperrors.WrapDatabase("failed to query ongoing war", err)
	}
	return w, nil
}

// ListOngoing returns all ongoing wars a civilization is party to.
func (r *Repository) ListOngoing(ctx context.Context, civID int) ([]War, error) {
	logger := r.logger.With("operation", "list_ongoing", "civ_id", civID)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+warColumns+` FROM wars
		WHERE status = 'ongoing' AND (attacker_id = $1 OR defender_id = $1)
		ORDER BY started_at DESC`, civID)
	if err != nil {
		logger.Error("Failed to query wars", "error", err)
		return nil, apperrors.WrapDatabase("failed to query wars", err)
	}
	defer rows.Close()

	var wars []War
	for rows.Next() {
		w, err := scanWar(rows)
		if err != nil {
			logger.Error("Failed to scan war row", "error", err)
			return nil, apperrors.WrapDatabase("failed to scan war", err)
		}
		wars = append(wars, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapDatabase("error iterating wars", err)
	}

	return wars, nil
}

// EndWithVictory closes the ongoing war between winner and loser.
func (r *Repository) EndWithVictory(ctx context.Context, winnerID, loserID int) error {
	logger := r.logger.With("operation", "end_victory", "winner_id", winnerID, "loser_id", loserID)

	result, err := r.db.ExecContext(ctx, `
		UPDATE wars SET status = 'victory', ended_at = NOW()
		WHERE status = 'ongoing'
		  AND ((attacker_id = $1 AND defender_id = $2)
		    OR (attacker_id = $2 AND defender_id = $1))`, winnerID, loserID)
	if err != nil {
		logger.Error("Failed to close war", "error", err)
		return apperrors.WrapDatabase("failed to close war", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotAtWarf("no ongoing war between %d and %d", winnerID, loserID)
	}

	logger.Info("War ended in victory")
	return nil
}

// CreateOffer records a pending peace offer. A duplicate pending offer for
// the ordered pair is rejected by the partial unique index.
func (r *Repository) CreateOffer(ctx context.Context, offererID, receiverID int) (*PeaceOffer, error) {
	logger := r.logger.With("operation", "create_offer", "offerer_id", offererID, "receiver_id", receiverID)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO peace_offers (offerer_id, receiver_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, offerer_id, receiver_id, status, offered_at, responded_at`,
		offererID, receiverID)

	var o PeaceOffer
	err := row.Scan(&o.ID, &o.OffererID, &o.ReceiverID, &o.Status, &o.OfferedAt, &o.RespondedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			logger.Info("Pending offer already exists")
			return nil, apperrors.New(apperrors.ErrorTypeDuplicateOffer,
				"peace offer to civilization %d already pending", receiverID)
		}
		logger.Error("Failed to insert peace offer", "error", err)
		return nil, apperrors.WrapDatabase("failed to create peace offer", err)
	}

	logger.Info("Peace offer created", "offer_id", o.ID)
	return &o, nil
}

// PendingOffersFor lists offers awaiting the given receiver's response.
func (r *Repository) PendingOffersFor(ctx context.Context, receiverID int) ([]PeaceOffer, error) {
	logger := r.logger.With("operation", "pending_offers", "receiver_id", receiverID)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, offerer_id, receiver_id, status, offered_at, responded_at
		FROM peace_offers
		WHERE receiver_id = $1 AND status = 'pending'
		ORDER BY offered_at`, receiverID)
	if err != nil {
		logger.Error("Failed to query peace offers", "error", err)
		return nil, apperrors.WrapDatabase("failed to query peace offers", err)
	}
	defer rows.Close()

	var offers []PeaceOffer
	for rows.Next() {
		var o PeaceOffer
		if err := rows.Scan(&o.ID, &o.OffererID, &o.ReceiverID, &o.Status, &o.OfferedAt, &o.RespondedAt); err != nil {
			logger.Error("Failed to scan offer row", "error", err)
			return nil, apperrors.WrapDatabase("failed to scan peace offer", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapDatabase("error iterating peace offers", err)
	}

	return offers, nil
}

// Accept resolves a pending offer in one transaction: the offer is marked
// accepted, the ongoing war is closed as peace, and both populations gain
// the peace happiness bonus. Any missing piece aborts the whole thing.
func (r *Repository) Accept(ctx context.Context, receiverID, offererID int) (*War, error) {
	logger := r.logger.With("operation", "accept_offer", "receiver_id", receiverID, "offerer_id", offererID)

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabase("failed to begin transaction", err)
	}
	defer rollback(tx, logger)

	result, err := tx.ExecContext(ctx, `
		UPDATE peace_offers SET status = 'accepted', responded_at = NOW()
		WHERE offerer_id = $1 AND receiver_id = $2 AND status = 'pending'`,
		offererID, receiverID)
	if err != nil {
		logger.Error("Failed to accept offer", "error", err)
		return nil, apperrors.WrapDatabase("failed to accept peace offer", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeNoPendingOffer,
			"no pending peace offer from civilization %d", offererID)
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE wars SET status = 'peace', ended_at = NOW()
		WHERE status = 'ongoing'
		  AND ((attacker_id = $1 AND defender_id = $2)
		    OR (attacker_id = $2 AND defender_id = $1))
		RETURNING `+warColumns, offererID, receiverID)

	w, err := scanWar(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotAtWarf("no ongoing war between %d and %d", offererID, receiverID)
		}
		logger.Error("Failed to close war", "error", err)
		return nil, apperrors.WrapDatabase("failed to close war", err)
	}

	// Peace lifts both populations. Civilization rows are updated in ID
	// order, matching the lock order used everywhere else.
	firstID, secondID := offererID, receiverID
	if receiverID < offererID {
		firstID, secondID = receiverID, offererID
	}
	for _, id := range []int{firstID, secondID} {
		if _, err := tx.ExecContext(ctx,
			`UPDATE civilizations SET happiness = happiness + 15 WHERE id = $1`, id); err != nil {
			return nil, apperrors.WrapDatabase("failed to apply peace bonus", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.WrapDatabase("failed to commit peace", err)
	}

	logger.Info("Peace accepted", "war_id", w.ID)
	return w, nil
}

func rollback(tx *database.Tx, logger *slog.Logger) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		logger.Error("Failed to rollback transaction", "error", err)
	}
}
