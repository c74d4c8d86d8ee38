package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

type fakeHistoryClient struct {
	points []entity.PricePoint
	err    error
	calls  int
}

func (f *fakeHistoryClient) MarketChart(ctx context.Context, coinID string, days int) ([]entity.PricePoint, error) {
	f.calls++
	return f.points, f.err
}

func TestSeriesCachesPerTokenAndRange(t *testing.T) {
	client := &fakeHistoryClient{points: []entity.PricePoint{
		{Timestamp: 1721300000000, Price: 1.2},
		{Timestamp: 1721386400000, Price: 1.3},
	}}
	svc := NewHistoryService(client, time.Minute, nil)

	first, err := svc.Series(context.Background(), "avalanche", 7)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, client.calls)

	second, err := svc.Series(context.Background(), "avalanche", 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls, "fresh cache entry must be served without a request")

	// A different range is a different cache entry.
	_, err = svc.Series(context.Background(), "avalanche", 30)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestSeriesFailureIsNotCached(t *testing.T) {
	client := &fakeHistoryClient{err: errors.New("upstream 429")}
	svc := NewHistoryService(client, time.Minute, nil)

	_, err := svc.Series(context.Background(), "bitcoin", 7)
	require.Error(t, err)

	client.err = nil
	client.points = []entity.PricePoint{{Timestamp: 1721300000000, Price: 64000}}

	points, err := svc.Series(context.Background(), "bitcoin", 7)
	require.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, 2, client.calls)
}
