package service

import (
	"context"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/cache"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type AnalyticsService struct {
	repo   repo.AnalyticsRepo
	cache  *cache.ListingCache
	sf     singleflight.Group
	logger *zap.Logger
}

func NewAnalyticsService(r repo.AnalyticsRepo, c *cache.ListingCache, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: r, cache: c, logger: logger}
}

// StatsInvalidator drops cached aggregates after a write that changes them.
// Implemented by AnalyticsService.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// LocationStats returns users and pets per location, busiest first.
// Results are cached until a registration or pet write invalidates them.
func (s *AnalyticsService) LocationStats(ctx context.Context) ([]dom.LocationStat, error) {
	if s.cache == nil {
		return s.repo.LocationStats(ctx)
	}
	v, err, _ := s.sf.Do("location", func() (interface{}, error) {
		stats, ok, err := s.cache.GetLocationStats(ctx)
		if ok {
			return stats, nil
		}
		if err != nil {
			s.logger.Warn("analytics cache read failed", zap.Error(err))
		}
		stats, err = s.repo.LocationStats(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetLocationStats(ctx, stats); err != nil {
			s.logger.Warn("analytics cache write failed", zap.Error(err))
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.LocationStat), nil
}

// InvalidateStats drops the cached location stats. Failures are logged; the
// entry still expires with the cache TTL.
func (s *AnalyticsService) InvalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLocationStats(ctx); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}
