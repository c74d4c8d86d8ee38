package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
	"github.com/DinosaurDerek/rocketlink/internal/pkg/units"
	"github.com/DinosaurDerek/rocketlink/pkg/metrics"
)

// MonitorServiceImpl implements port.MonitorService over a MonitorReader.
type MonitorServiceImpl struct {
	reader port.MonitorReader
	logger *zap.Logger
}

// NewMonitorService creates the snapshot read service.
func NewMonitorService(reader port.MonitorReader, logger *zap.Logger) *MonitorServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitorServiceImpl{reader: reader, logger: logger.Named("monitor_service")}
}

// Snapshot reads the four monitor fields as one batched refresh and converts
// them to display units; the on-chain seconds timestamp becomes milliseconds.
// Failures wrap into *entity.ContractReadError; retry scheduling is the
// caller's responsibility.
func (s *MonitorServiceImpl) Snapshot(ctx context.Context, tokenID string) (entity.MonitorSnapshot, error) {
	raw, err := s.reader.ReadMonitorState(ctx, tokenID)
	if err != nil {
		metrics.MonitorReadFailures.Inc()
		s.logger.Warn("Monitor snapshot read failed", zap.String("token", tokenID), zap.Error(err))
		return entity.MonitorSnapshot{}, &entity.ContractReadError{TokenID: tokenID, Err: err}
	}

	snapshot := entity.MonitorSnapshot{
		Breached:  raw.Breached,
		Threshold: units.ToDisplay(raw.Threshold, units.DefaultDecimals),
		LastPrice: units.ToDisplay(raw.LastPrice, units.DefaultDecimals),
	}
	if raw.UpdatedAt != nil {
		snapshot.LastUpdatedAt = raw.UpdatedAt.Int64() * 1000
	}
	return snapshot, nil
}
