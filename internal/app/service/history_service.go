package service

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// HistoryServiceImpl implements port.HistoryService with a TTL cache in front
// of the external market-data API.
type HistoryServiceImpl struct {
	client      port.HistoryClient
	seriesCache *cache.Cache // key "tokenID_days" -> []entity.PricePoint
	logger      *zap.Logger
}

// NewHistoryService creates the chart-series service.
func NewHistoryService(client port.HistoryClient, ttl time.Duration, logger *zap.Logger) *HistoryServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryServiceImpl{
		client:      client,
		seriesCache: cache.New(ttl, 10*time.Minute),
		logger:      logger.Named("history_service"),
	}
}

// Series returns the [timestamp, price] series for the token, serving cached
// data while it is fresh.
func (s *HistoryServiceImpl) Series(ctx context.Context, tokenID string, days int) ([]entity.PricePoint, error) {
	key := fmt.Sprintf("%s_%d", tokenID, days)
	if cached, ok := s.seriesCache.Get(key); ok {
		if points, ok := cached.([]entity.PricePoint); ok {
			return points, nil
		}
	}

	points, err := s.client.MarketChart(ctx, tokenID, days)
	if err != nil {
		s.logger.Warn("Market chart request failed",
			zap.String("token", tokenID),
			zap.Int("days", days),
			zap.Error(err))
		return nil, err
	}

	s.seriesCache.Set(key, points, cache.DefaultExpiration)
	return points, nil
}
