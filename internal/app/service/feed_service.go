package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
	"github.com/DinosaurDerek/rocketlink/internal/pkg/units"
	"github.com/DinosaurDerek/rocketlink/pkg/metrics"
)

// FeedServiceImpl implements port.FeedService over a FeedReader.
type FeedServiceImpl struct {
	reader  port.FeedReader
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewFeedService creates the feed refresh service. limiter may be nil to
// disable RPC read throttling.
func NewFeedService(reader port.FeedReader, limiter *rate.Limiter, logger *zap.Logger) *FeedServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedServiceImpl{
		reader:  reader,
		limiter: limiter,
		logger:  logger.Named("feed_service"),
	}
}

// RefreshAll reads the latest price from every token's feed concurrently and
// returns a new slice. A failing feed is logged and that token keeps its
// previous price; one bad feed never aborts the batch. The error return is
// non-nil only when the whole refresh was cancelled.
func (s *FeedServiceImpl) RefreshAll(ctx context.Context, tokens []entity.Token) ([]entity.Token, error) {
	updated := make([]entity.Token, len(tokens))
	copy(updated, tokens)

	g, gctx := errgroup.WithContext(ctx)
	for i := range updated {
		i := i
		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.Wait(gctx); err != nil {
					return nil
				}
			}

			raw, err := s.reader.ReadFeedPrice(gctx, updated[i].FeedAddress)
			if err != nil {
				metrics.FeedReadFailures.Inc()
				s.logger.Warn("Feed read failed, keeping previous price",
					zap.String("token", updated[i].ID),
					zap.String("feed", updated[i].FeedAddress),
					zap.Error(err))
				return nil
			}

			price := units.ToDisplay(raw, units.DefaultDecimals)
			updated[i].Price = &price
			return nil
		})
	}

	// Per-token errors are swallowed above, so Wait only reflects ctx state.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return updated, nil
}
