package restapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/app/state"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fakeMonitorService struct {
	snapshot entity.MonitorSnapshot
	err      error
}

func (f *fakeMonitorService) Snapshot(ctx context.Context, tokenID string) (entity.MonitorSnapshot, error) {
	return f.snapshot, f.err
}

type fakeWriteService struct {
	priceResult     entity.PriceUpdateResult
	priceErr        error
	thresholdResult entity.ThresholdResult
	thresholdErr    error

	thresholdInputs []string
}

func (f *fakeWriteService) UpdatePrice(ctx context.Context, tokenID string) (entity.PriceUpdateResult, error) {
	return f.priceResult, f.priceErr
}

func (f *fakeWriteService) SetThreshold(ctx context.Context, tokenID, display string) (entity.ThresholdResult, error) {
	f.thresholdInputs = append(f.thresholdInputs, display)
	return f.thresholdResult, f.thresholdErr
}

type fakeHistoryService struct {
	points []entity.PricePoint
	err    error
}

func (f *fakeHistoryService) Series(ctx context.Context, tokenID string, days int) ([]entity.PricePoint, error) {
	return f.points, f.err
}

type fakeHeartbeater struct{ count int }

func (f *fakeHeartbeater) Heartbeat() { f.count++ }

type testEnv struct {
	router     *gin.Engine
	store      *state.Store
	monitorSvc *fakeMonitorService
	writeSvc   *fakeWriteService
	historySvc *fakeHistoryService
	heartbeat  *fakeHeartbeater
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		store:      state.NewStore(),
		monitorSvc: &fakeMonitorService{},
		writeSvc:   &fakeWriteService{},
		historySvc: &fakeHistoryService{},
		heartbeat:  &fakeHeartbeater{},
	}
	handlers := NewHandlers(env.store, env.monitorSvc, env.writeSvc, env.historySvc, nil, env.heartbeat, nil)
	env.router = SetupRouter(handlers, zap.NewNop())
	return env
}

func (e *testEnv) do(method, path string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestGetTokens(t *testing.T) {
	env := newTestEnv(t)
	price := 500.0
	env.store.ReplaceTokens([]entity.Token{
		{ID: "bitcoin", Symbol: "BTC", FeedAddress: "0xaaa", Price: &price},
	})

	w := env.do(http.MethodGet, "/api/v1/tokens", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokensResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Tokens, 1)
	assert.Equal(t, "bitcoin", resp.Data.Tokens[0].ID)
	assert.Equal(t, "bitcoin", resp.Data.Selection)
	assert.Empty(t, resp.Error)
}

func TestGetTokensReportsFeedError(t *testing.T) {
	env := newTestEnv(t)
	env.store.ReplaceTokens([]entity.Token{{ID: "bitcoin", FeedAddress: "0xaaa"}})
	env.store.SetFeedError("rpc unreachable")

	w := env.do(http.MethodGet, "/api/v1/tokens", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokensResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Tokens, 1, "error state rides alongside the last good data")
	assert.Equal(t, "rpc unreachable", resp.Error)
}

func TestSetSelection(t *testing.T) {
	env := newTestEnv(t)
	env.store.ReplaceTokens([]entity.Token{
		{ID: "bitcoin", FeedAddress: "0xaaa"},
		{ID: "ethereum", FeedAddress: "0xbbb"},
	})

	w := env.do(http.MethodPut, "/api/v1/selection", `{"id": "ethereum"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ethereum", env.store.Selection())

	w = env.do(http.MethodPut, "/api/v1/selection", `{"id": "dogecoin"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPut, "/api/v1/selection", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMonitorServesStoredSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetSnapshot("bitcoin", entity.MonitorSnapshot{Breached: true, Threshold: 1, LastPrice: 1.2, LastUpdatedAt: 1721300000000})

	w := env.do(http.MethodGet, "/api/v1/tokens/bitcoin/monitor", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp MonitorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.True(t, resp.Data.Breached)
	assert.Equal(t, 1.2, resp.Data.LastPrice)
}

func TestGetMonitorFallsBackToLiveRead(t *testing.T) {
	env := newTestEnv(t)
	env.monitorSvc.snapshot = entity.MonitorSnapshot{Threshold: 2, LastPrice: 1.5}

	w := env.do(http.MethodGet, "/api/v1/tokens/ethereum/monitor", "")
	require.Equal(t, http.StatusOK, w.Code)

	// The live read is cached for subsequent requests.
	_, _, ok := env.store.Snapshot("ethereum")
	assert.True(t, ok)
}

func TestUpdatePriceEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetSnapshot("bitcoin", entity.MonitorSnapshot{Threshold: 1, LastPrice: 0.9})
	env.writeSvc.priceResult = entity.PriceUpdateResult{LastPrice: 1.23456789, Breached: true}

	w := env.do(http.MethodPost, "/api/v1/tokens/bitcoin/monitor/price", "")
	require.Equal(t, http.StatusOK, w.Code)

	snap, _, ok := env.store.Snapshot("bitcoin")
	require.True(t, ok)
	assert.Equal(t, 1.23456789, snap.LastPrice)
	assert.True(t, snap.Breached)
}

func TestSetThresholdEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.writeSvc.thresholdResult = entity.ThresholdResult{Breached: true}

	w := env.do(http.MethodPost, "/api/v1/tokens/bitcoin/monitor/threshold", `{"threshold": "1.23"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"1.23"}, env.writeSvc.thresholdInputs)

	w = env.do(http.MethodPost, "/api/v1/tokens/bitcoin/monitor/threshold", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid amount", entity.ErrInvalidAmount, http.StatusBadRequest},
		{"wallet unavailable", entity.ErrWalletUnavailable, http.StatusServiceUnavailable},
		{"network unavailable", entity.ErrNetworkUnavailable, http.StatusServiceUnavailable},
		{"switch failed", &entity.NetworkSwitchError{Reason: "network switch was declined"}, http.StatusBadGateway},
		{"rejected", &entity.TransactionRejectedError{Reason: "signing declined in wallet"}, http.StatusConflict},
		{"read failed", &entity.ContractReadError{TokenID: "bitcoin"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.writeSvc.priceErr = tt.err

			w := env.do(http.MethodPost, "/api/v1/tokens/bitcoin/monitor/price", "")
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestGetHistory(t *testing.T) {
	env := newTestEnv(t)
	env.historySvc.points = []entity.PricePoint{{Timestamp: 1721300000000, Price: 1.2}}

	w := env.do(http.MethodGet, "/api/v1/tokens/avalanche/history?days=7", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/tokens/avalanche/history?days=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/tokens/avalanche/history?days=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVisibilityHeartbeat(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/visibility", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, env.heartbeat.count)
}

func TestWalletStatusWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/wallet", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data entity.WalletStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Connected)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
