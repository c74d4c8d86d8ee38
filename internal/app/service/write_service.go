package service

import (
	"context"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
	"github.com/DinosaurDerek/rocketlink/internal/pkg/units"
)

// WriteServiceImpl implements port.WriteService. Each flow submits one
// transaction, blocks until it is mined and then re-reads the affected fields
// so the caller gets fresh state. Nothing is retried silently; guard
// failures, wallet rejections and reverts propagate as distinct errors.
type WriteServiceImpl struct {
	writer port.MonitorWriter
	reader port.MonitorReader
	logger *zap.Logger
}

// NewWriteService creates the write-flow service.
func NewWriteService(writer port.MonitorWriter, reader port.MonitorReader, logger *zap.Logger) *WriteServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteServiceImpl{writer: writer, reader: reader, logger: logger.Named("write_service")}
}

// UpdatePrice submits updatePrice, waits for inclusion, then re-reads
// lastPrice and the breach flag concurrently. Calling it twice may legally
// produce two distinct on-chain prices; idempotence is not this layer's job.
func (s *WriteServiceImpl) UpdatePrice(ctx context.Context, tokenID string) (entity.PriceUpdateResult, error) {
	if err := s.writer.UpdatePrice(ctx, tokenID); err != nil {
		return entity.PriceUpdateResult{}, err
	}

	var (
		rawPrice *big.Int
		breached bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawPrice, err = s.reader.ReadLastPrice(gctx, tokenID)
		return err
	})
	g.Go(func() error {
		var err error
		breached, err = s.reader.ReadBreached(gctx, tokenID)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.PriceUpdateResult{}, &entity.ContractReadError{TokenID: tokenID, Err: err}
	}

	result := entity.PriceUpdateResult{
		LastPrice: units.ToDisplay(rawPrice, units.DefaultDecimals),
		Breached:  breached,
	}
	s.logger.Info("Price updated",
		zap.String("token", tokenID),
		zap.Float64("last_price", result.LastPrice),
		zap.Bool("breached", result.Breached))
	return result, nil
}

// SetThreshold converts the display value to raw fixed-point, rejecting bad
// input before any network call, submits setThreshold, waits for inclusion
// and re-reads the breach flag.
func (s *WriteServiceImpl) SetThreshold(ctx context.Context, tokenID string, display string) (entity.ThresholdResult, error) {
	raw, err := units.ParseUnits(display, units.DefaultDecimals)
	if err != nil {
		return entity.ThresholdResult{}, err
	}

	if err := s.writer.SetThreshold(ctx, tokenID, raw); err != nil {
		return entity.ThresholdResult{}, err
	}

	breached, err := s.reader.ReadBreached(ctx, tokenID)
	if err != nil {
		return entity.ThresholdResult{}, &entity.ContractReadError{TokenID: tokenID, Err: err}
	}

	s.logger.Info("Threshold updated",
		zap.String("token", tokenID),
		zap.String("threshold", display),
		zap.Bool("breached", breached))
	return entity.ThresholdResult{Breached: breached}, nil
}
