package civ

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
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
	logger.Debug("Initializing civilization repository")
	return &Repository{
		db:     db,
		logger: logger.With("component", "civ_repository"),
	}
}

const civColumns = `id, name, ideology, gold, food, stone, wood,
	citizens, happiness, hunger, soldiers, spies, tech_level, land_size,
	bonuses, hyper_items, created_at, last_active`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCivilization(row rowScanner) (*Civilization, error) {
	var c Civilization
	var bonuses, hyperItems []byte

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Ideology,
		&c.Resources.Gold,
		&c.Resources.Food,
		&c.Resources.Stone,
		&c.Resources.Wood,
		&c.Population.Citizens,
		&c.Population.Happiness,
		&c.Population.Hunger,
		&c.Military.Soldiers,
		&c.Military.Spies,
		&c.Military.TechLevel,
		&c.Territory.LandSize,
		&bonuses,
		&hyperItems,
		&c.CreatedAt,
		&c.LastActive,
	)
	if err != nil {
		return nil, err
	}

	if len(bonuses) > 0 {
		if err := json.Unmarshal(bonuses, &c.Bonuses); err != nil {
			return nil, fmt.Errorf("failed to decode bonuses: %w", err)
		}
	}
	if c.Bonuses == nil {
		c.Bonuses = make(map[string]float64)
	}

	if len(hyperItems) > 0 {
		if err := json.Unmarshal(hyperItems, &c.HyperItems); err != nil {
			return nil, fmt.Errorf("failed to decode hyper items: %w", err)
		}
	}
	if c.HyperItems == nil {
		c.HyperItems = []string{}
	}

	return &c, nil
}

// Create inserts a new civilization. The caller supplies starting state;
// created_at and last_active are set by the database.
func (r *Repository) Create(ctx context.Context, c *Civilization) (*Civilization, error) {
	logger := r.logger.With("operation", "create", "civ_id", c.ID, "name", c.Name)
	logger.Info("Creating civilization")

	bonuses, err := json.Marshal(c.Bonuses)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to encode bonuses", err)
	}
	hyperItems, err := json.Marshal(c.HyperItems)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to encode hyper items", err)
	}

	query := `
		INSERT INTO civilizations (
			id, name, ideology, gold, food, stone, wood,
			citizens, happiness, hunger, soldiers, spies, tech_level, land_size,
			bonuses, hyper_items
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + civColumns

	row := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Ideology,
		c.Resources.Gold, c.Resources.Food, c.Resources.Stone, c.Resources.Wood,
		c.Population.Citizens, c.Population.Happiness, c.Population.Hunger,
		c.Military.Soldiers, c.Military.Spies, c.Military.TechLevel,
		c.Territory.LandSize,
		bonuses, hyperItems,
	)

	created, err := scanCivilization(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			logger.Info("Civilization already exists")
			return nil, apperrors.AlreadyExistsf("civilization already founded")
		}
		logger.Error("Failed to create civilization", "error", err)
		return nil, apperrors.WrapDatabase("failed to create civilization", err)
	}

	logger.Info("Civilization created")
	return created, nil
}

// GetByID loads a civilization without locking it.
func (r *Repository) GetByID(ctx context.Context, id int) (*Civilization, error) {
	logger := r.logger.With("operation", "get", "civ_id", id)

	query := `SELECT ` + civColumns + ` FROM civilizations WHERE id = $1`

	c, err := scanCivilization(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("civilization %d not found", id)
		}
		logger.Error("Failed to load civilization", "error", err)
		return nil, apperrors.WrapDatabase("failed to load civilization", err)
	}

	return c, nil
}

// Touch bumps last_active for activity tracking.
func (r *Repository) Touch(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE civilizations SET last_active = NOW() WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to touch civilization", "operation", "touch", "civ_id", id, "error", err)
		return apperrors.WrapDatabase("failed to update last_active", err)
	}
	return nil
}

// Update applies a linearizable mutation to a single civilization. The row
// is locked, passed to fn on its current state, and written back in the
// same transaction. Returning an error from fn aborts with no change.
func (r *Repository) Update(ctx context.Context, id int, fn func(c *Civilization) error) (*Civilization, error) {
	logger := r.logger.With("operation", "update", "civ_id", id)

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabase("failed to begin transaction", err)
	}
	defer rollback(tx, logger)

	c, err := lockCivilization(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	if err := writeCivilization(ctx, tx, c); err != nil {
		logger.Error("Failed to write civilization", "error", err)
		return nil, apperrors.WrapDatabase("failed to write civilization", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.WrapDatabase("failed to commit update", err)
	}

	return c, nil
}

// UpdatePair atomically mutates two civilizations. Rows are locked in
// ascending ID order regardless of argument order so concurrent pair
// updates cannot deadlock. fn sees both current states and mutates them in
// place; an error aborts the whole transaction.
func (r *Repository) UpdatePair(ctx context.Context, aID, bID int, fn func(a, b *Civilization) error) (*Civilization, *Civilization, error) {
	logger := r.logger.With("operation", "update_pair", "civ_a", aID, "civ_b", bID)

	if aID == bID {
		return nil, nil, apperrors.SelfTargetf("cannot target own civilization")
	}

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, nil, apperrors.WrapDatabase("failed to begin transaction", err)
	}
	defer rollback(tx, logger)

	firstID, secondID := aID, bID
	if bID < aID {
		firstID, secondID = bID, aID
	}

	first, err := lockCivilization(ctx, tx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := lockCivilization(ctx, tx, secondID)
	if err != nil {
		return nil, nil, err
	}

	a, b := first, second
	if first.ID != aID {
		a, b = second, first
	}

	if err := fn(a, b); err != nil {
		return nil, nil, err
	}

	if err := writeCivilization(ctx, tx, a); err != nil {
		logger.Error("Failed to write civilization", "civ_id", a.ID, "error", err)
		return nil, nil, apperrors.WrapDatabase("failed to write civilization", err)
	}
	if err := writeCivilization(ctx, tx, b); err != nil {
		logger.Error("Failed to write civilization", "civ_id", b.ID, "error", err)
		return nil, nil, apperrors.WrapDatabase("failed to write civilization", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, apperrors.WrapDatabase("failed to commit pair update", err)
	}

	return a, b, nil
}

func lockCivilization(ctx context.Context, tx *database.Tx, id int) (*Civilization, error) {
	query := `SELECT ` + civColumns + ` FROM civilizations WHERE id = $1 FOR UPDATE`

	c, err := scanCivilization(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundf("civilization %d not found", id)
		}
		return nil, apperrors.WrapDatabase("failed to lock civilization", err)
	}
	return c, nil
}

func writeCivilization(ctx context.Context, tx *database.Tx, c *Civilization) error {
	bonuses, err := json.Marshal(c.Bonuses)
	if err != nil {
		return fmt.Errorf("failed to encode bonuses: %w", err)
	}
	hyperItems, err := json.Marshal(c.HyperItems)
	if err != nil {
		return fmt.Errorf("failed to encode hyper items: %w", err)
	}

	query := `
		UPDATE civilizations SET
			name = $2, ideology = $3,
			gold = $4, food = $5, stone = $6, wood = $7,
			citizens = $8, happiness = $9, hunger = $10,
			soldiers = $11, spies = $12, tech_level = $13,
			land_size = $14, bonuses = $15, hyper_items = $16,
			last_active = NOW()
		WHERE id = $1`

	_, err = tx.ExecContext(ctx, query,
		c.ID, c.Name, c.Ideology,
		c.Resources.Gold, c.Resources.Food, c.Resources.Stone, c.Resources.Wood,
		c.Population.Citizens, c.Population.Happiness, c.Population.Hunger,
		c.Military.Soldiers, c.Military.Spies, c.Military.TechLevel,
		c.Territory.LandSize,
		bonuses, hyperItems,
	)
	return err
}

func rollback(tx *database.Tx, logger *slog.Logger) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		logger.Error("Failed to rollback transaction", "error", err)
	}
}
