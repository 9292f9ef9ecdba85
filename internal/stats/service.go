package stats

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

// Recorder receives counter increments from the game systems. Recording is
// best effort; failures must not abort the operation being recorded.
type Recorder interface {
	Record(ctx context.Context, civID int, d Delta)
}

// Store is the persistence surface. *Repository satisfies it.
type Store interface {
	Add(ctx context.Context, civID int, d Delta) error
	Get(ctx context.Context, civID int) (*Statistics, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing stats service")
	return &Service{
		store:  store,
		logger: logger.With("component", "stats_service"),
	}
}

// Record implements Recorder.
func (s *Service) Record(ctx context.Context, civID int, d Delta) {
	if err := s.store.Add(ctx, civID, d); err != nil {
		s.logger.Warn("Failed to record statistics", "civ_id", civID, "error", err)
	}
}

// Get returns a civilization's lifetime record.
func (s *Service) Get(ctx context.Context, civID int) (*Statistics, error) {
	return s.store.Get(ctx, civID)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
