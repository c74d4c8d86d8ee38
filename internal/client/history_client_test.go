package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChartServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestMarketChart(t *testing.T) {
	server := newChartServer(t, http.StatusOK, `{
		"prices": [[1721300000000, 1.2], [1721386400000, 1.3]],
		"market_caps": [[1721300000000, 12000000]]
	}`)

	c := NewMarketDataClient(server.URL, 5*time.Second, nil)
	points, err := c.MarketChart(context.Background(), "avalanche", 7)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, int64(1721300000000), points[0].Timestamp)
	assert.Equal(t, 1.2, points[0].Price)
	assert.Equal(t, 1.3, points[1].Price)
}

func TestMarketChartSkipsShortPairs(t *testing.T) {
	server := newChartServer(t, http.StatusOK, `{"prices": [[1721300000000, 1.2], [1721386400000]]}`)

	c := NewMarketDataClient(server.URL, 5*time.Second, nil)
	points, err := c.MarketChart(context.Background(), "avalanche", 7)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestMarketChartUpstreamError(t *testing.T) {
	server := newChartServer(t, http.StatusTooManyRequests, `{"error": "rate limited"}`)

	c := NewMarketDataClient(server.URL, 5*time.Second, nil)
	_, err := c.MarketChart(context.Background(), "bitcoin", 7)
	assert.Error(t, err)
}

func TestMarketChartMalformedBody(t *testing.T) {
	server := newChartServer(t, http.StatusOK, `not json`)

	c := NewMarketDataClient(server.URL, 5*time.Second, nil)
	_, err := c.MarketChart(context.Background(), "bitcoin", 7)
	assert.Error(t, err)
}

func TestMarketChartInputValidation(t *testing.T) {
	c := NewMarketDataClient("https://example.org", time.Second, nil)

	_, err := c.MarketChart(context.Background(), "", 7)
	assert.Error(t, err)

	_, err = c.MarketChart(context.Background(), "bitcoin", 0)
	assert.Error(t, err)
}
