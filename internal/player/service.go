package player

import (
	"context"
	"log/slog"
	"strings"

	apperrors "warciv-server/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing player service")
	return &Service{
		repo:   repo,
		logger: logger.With("component", "player_service"),
	}
}

func (s *Service) GetByID(ctx context.Context, id int) (*Player, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// FindOrCreateByOAuth returns the player owning the given verified email,
// creating the account on first login.
func (s *Service) FindOrCreateByOAuth(ctx context.Context, provider, providerUserID, email, displayName string, avatarURL *string) (*Player, error) {
	logger := s.logger.With("operation", "find_or_create_oauth", "provider", provider)

	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil && apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		return nil, err
	}
	if p != nil {
		logger.Debug("Found existing player by email", "player_id", p.ID)
		return p, nil
	}

	p, err = s.repo.Create(ctx, usernameFromEmail(email), email, displayName, avatarURL)
	if err != nil {
		return nil, err
	}

	logger.Info("New player created via OAuth", "player_id", p.ID, "username", p.Username)
	return p, nil
}

func usernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return "player"
}
