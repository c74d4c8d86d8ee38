package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

type fakeMonitorWriter struct {
	updateErr    error
	thresholdErr error

	updateCalls    []string
	thresholdCalls []*big.Int
}

func (f *fakeMonitorWriter) UpdatePrice(ctx context.Context, tokenID string) error {
	f.updateCalls = append(f.updateCalls, tokenID)
	return f.updateErr
}

func (f *fakeMonitorWriter) SetThreshold(ctx context.Context, tokenID string, raw *big.Int) error {
	f.thresholdCalls = append(f.thresholdCalls, raw)
	return f.thresholdErr
}

func TestUpdatePriceReturnsFreshState(t *testing.T) {
	writer := &fakeMonitorWriter{}
	reader := &fakeMonitorReader{
		lastPrice: big.NewInt(123456789),
		breached:  false,
	}
	svc := NewWriteService(writer, reader, nil)

	result, err := svc.UpdatePrice(context.Background(), "bitcoin")
	require.NoError(t, err)

	assert.Equal(t, entity.PriceUpdateResult{LastPrice: 1.23456789, Breached: false}, result)
	assert.Equal(t, []string{"bitcoin"}, writer.updateCalls)
}

func TestUpdatePriceWriteFailurePropagates(t *testing.T) {
	rejection := &entity.TransactionRejectedError{Reason: "signing declined in wallet"}
	writer := &fakeMonitorWriter{updateErr: rejection}
	svc := NewWriteService(writer, &fakeMonitorReader{}, nil)

	_, err := svc.UpdatePrice(context.Background(), "bitcoin")

	var rejected *entity.TransactionRejectedError
	require.ErrorAs(t, err, &rejected)
}

func TestUpdatePriceReadBackFailure(t *testing.T) {
	writer := &fakeMonitorWriter{}
	reader := &fakeMonitorReader{lastPriceErr: errors.New("rpc timeout")}
	svc := NewWriteService(writer, reader, nil)

	_, err := svc.UpdatePrice(context.Background(), "ethereum")

	var readErr *entity.ContractReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "ethereum", readErr.TokenID)
}

func TestSetThresholdSubmitsRawValue(t *testing.T) {
	writer := &fakeMonitorWriter{}
	reader := &fakeMonitorReader{breached: true}
	svc := NewWriteService(writer, reader, nil)

	result, err := svc.SetThreshold(context.Background(), "bitcoin", "1.23")
	require.NoError(t, err)

	assert.Equal(t, entity.ThresholdResult{Breached: true}, result)
	require.Len(t, writer.thresholdCalls, 1)
	assert.Equal(t, big.NewInt(123000000), writer.thresholdCalls[0])
}

func TestSetThresholdRejectsBadInputBeforeSubmit(t *testing.T) {
	writer := &fakeMonitorWriter{}
	svc := NewWriteService(writer, &fakeMonitorReader{}, nil)

	for _, input := range []string{"", "abc", "-1", "1.2.3"} {
		_, err := svc.SetThreshold(context.Background(), "bitcoin", input)
		assert.ErrorIs(t, err, entity.ErrInvalidAmount, "input %q", input)
	}
	assert.Empty(t, writer.thresholdCalls, "invalid input must never reach the chain")
}

func TestSetThresholdWriteFailurePropagates(t *testing.T) {
	writer := &fakeMonitorWriter{thresholdErr: entity.ErrWalletUnavailable}
	svc := NewWriteService(writer, &fakeMonitorReader{}, nil)

	_, err := svc.SetThreshold(context.Background(), "bitcoin", "1.23")
	assert.ErrorIs(t, err, entity.ErrWalletUnavailable)
}

func TestSetThresholdReadBackFailure(t *testing.T) {
	writer := &fakeMonitorWriter{}
	reader := &fakeMonitorReader{breachedErr: errors.New("rpc timeout")}
	svc := NewWriteService(writer, reader, nil)

	_, err := svc.SetThreshold(context.Background(), "avalanche", "2.5")

	var readErr *entity.ContractReadError
	require.ErrorAs(t, err, &readErr)
}
