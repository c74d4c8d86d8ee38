package port

import (
	"context"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// FeedService refreshes feed prices for a token set.
type FeedService interface {
	// RefreshAll re-reads every token's feed concurrently and returns a new
	// slice; a token whose feed fails keeps its previous price. The input is
	// never mutated.
	RefreshAll(ctx context.Context, tokens []entity.Token) ([]entity.Token, error)
}

// MonitorService reads monitor snapshots in display units.
type MonitorService interface {
	Snapshot(ctx context.Context, tokenID string) (entity.MonitorSnapshot, error)
}

// WriteService drives the two mutating contract flows.
type WriteService interface {
	UpdatePrice(ctx context.Context, tokenID string) (entity.PriceUpdateResult, error)
	SetThreshold(ctx context.Context, tokenID string, display string) (entity.ThresholdResult, error)
}

// HistoryService returns historical price series for charting.
type HistoryService interface {
	Series(ctx context.Context, tokenID string, days int) ([]entity.PricePoint, error)
}
