package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"warciv-server/internal/shared/config"
	"warciv-server/internal/shared/redis"
)

// Ranker is the persistence surface. *Repository satisfies it.
type Ranker interface {
	Top(ctx context.Context, category Category, n int) ([]Entry, error)
}

type Service struct {
	ranker Ranker
	cache  *redis.Client
	logger *slog.Logger
}

// NewService builds the leaderboard service. A nil cache disables caching.
func NewService(ranker Ranker, cache *redis.Client, logger *slog.Logger) *Service {
	logger.Debug("Initializing leaderboard service")
	return &Service{
		ranker: ranker,
		cache:  cache,
		logger: logger.With("component", "leaderboard_service"),
	}
}

// Top returns the n highest-scoring civilizations, served from cache when
// a fresh copy exists. Cache failures fall through to the database.
func (s *Service) Top(ctx context.Context, category Category, n int) ([]Entry, error) {
	key := fmt.Sprintf("leaderboard:%s:%d", category, n)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var entries []Entry
			if err := json.Unmarshal(raw, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.ranker.Top(ctx, category, n)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			ttl := config.GlobalConfig.Game.LeaderboardCacheTTL
			if err := s.cache.Set(ctx, key, raw, ttl).Err(); err != nil {
				s.logger.Warn("Failed to cache leaderboard", "category", string(category), "error", err)
			}
		}
	}

	return entries, nil
}
