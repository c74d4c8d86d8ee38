package port

import (
	"context"
	"math/big"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// FeedReader reads the latest answer from a price-feed contract. Values are
// raw fixed-point integers; unit conversion is the caller's concern.
type FeedReader interface {
	ReadFeedPrice(ctx context.Context, feedAddress string) (*big.Int, error)
}

// MonitorReader reads observable state from a PriceMonitor contract resolved
// by token id.
type MonitorReader interface {
	// ReadMonitorState reads all four observable fields as one batched RPC
	// so they reflect the same chain state.
	ReadMonitorState(ctx context.Context, tokenID string) (entity.RawMonitorState, error)

	ReadLastPrice(ctx context.Context, tokenID string) (*big.Int, error)
	ReadBreached(ctx context.Context, tokenID string) (bool, error)
}

// MonitorWriter submits mutating transactions to a PriceMonitor contract and
// blocks until they are mined. Every call re-acquires the wallet session and
// re-validates the chain; nothing signer-bound is cached between calls.
type MonitorWriter interface {
	UpdatePrice(ctx context.Context, tokenID string) error
	SetThreshold(ctx context.Context, tokenID string, raw *big.Int) error
}
