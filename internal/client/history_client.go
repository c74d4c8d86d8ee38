package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// marketDataClientImpl implements port.HistoryClient against a
// CoinGecko-compatible market_chart endpoint.
type marketDataClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewMarketDataClient creates a new market-data client.
func NewMarketDataClient(baseURL string, timeout time.Duration, logger *zap.Logger) *marketDataClientImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &marketDataClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("MarketDataClient"),
	}
}

// marketChartResponse mirrors the market_chart payload; only prices are
// consumed, the series is otherwise opaque.
type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// MarketChart fetches the [timestamp, price] series for a coin id.
func (c *marketDataClientImpl) MarketChart(ctx context.Context, coinID string, days int) ([]entity.PricePoint, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coinID cannot be empty")
	}
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	requestURL := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d", c.baseURL, coinID, days)
	c.logger.Debug("Requesting market chart", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Market chart request failed", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Market chart request failed (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Market chart API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("market chart request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var chart marketChartResponse
	if err := json.Unmarshal(rawBody, &chart); err != nil {
		c.logger.Error("Failed to unmarshal market chart response",
			zap.String("url", requestURL),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal market chart response from %s: %w", requestURL, err)
	}

	points := make([]entity.PricePoint, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		if len(pair) < 2 {
			continue
		}
		points = append(points, entity.PricePoint{
			Timestamp: int64(pair[0]),
			Price:     pair[1],
		})
	}

	c.logger.Debug("Market chart fetched",
		zap.String("coin", coinID),
		zap.Int("points", len(points)))
	return points, nil
}
