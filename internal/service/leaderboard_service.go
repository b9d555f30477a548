package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhub/mentorhub-api/internal/models"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
)

type leaderboardRepository interface {
	Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, int, error)
}

type leaderboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const leaderboardKeyPrefix = "leaderboard"

type cachedLeaderboard struct {
	Entries []models.LeaderboardEntry `json:"entries"`
	Total   int                       `json:"total"`
}

// LeaderboardService serves the ranked point standings with a short-lived
// Redis cache in front of the database.
type LeaderboardService struct {
	repo   leaderboardRepository
	cache  leaderboardCache
	logger *zap.Logger
	ttl    time.Duration
}

// NewLeaderboardService constructs a LeaderboardService.
func NewLeaderboardService(repo leaderboardRepository, cache leaderboardCache, logger *zap.Logger, ttl time.Duration) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LeaderboardService{repo: repo, cache: cache, logger: logger, ttl: ttl}
}

// List returns one window of the leaderboard, highest totals first. Ties
// share a dense rank and are broken alphabetically for display.
func (s *LeaderboardService) List(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	key := fmt.Sprintf("%s:%d:%d", leaderboardKeyPrefix, limit, offset)
	if s.cache != nil {
		var cached cachedLeaderboard
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return withTiers(cached.Entries), cached.Total, nil
		} else if err != appErrors.ErrCacheMiss {
			s.logger.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	entries, total, err := s.repo.Leaderboard(ctx, limit, offset)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leaderboard")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedLeaderboard{Entries: entries, Total: total}, s.ttl); err != nil {
			s.logger.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}

	return withTiers(entries), total, nil
}

// Invalidate drops every cached leaderboard page.
func (s *LeaderboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, leaderboardKeyPrefix+":*")
}

func withTiers(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	for i := range entries {
		entries[i].Tier = models.TierForTotal(entries[i].Total)
	}
	return entries
}
