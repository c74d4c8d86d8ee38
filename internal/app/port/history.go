package port

import (
	"context"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// HistoryClient defines the interface for the external market-data API used
// to back the price chart.
type HistoryClient interface {
	// MarketChart returns [timestamp, price] pairs for the given coin id
	// spanning the requested number of days.
	MarketChart(ctx context.Context, coinID string, days int) ([]entity.PricePoint, error)
}
