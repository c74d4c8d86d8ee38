package restapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/app/state"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// Heartbeater receives dashboard liveness pings.
type Heartbeater interface {
	Heartbeat()
}

// Handlers serves the dashboard API.
type Handlers struct {
	store      *state.Store
	monitorSvc port.MonitorService
	writeSvc   port.WriteService
	historySvc port.HistoryService
	session    port.WalletSession // nil when no wallet bridge is configured
	heartbeat  Heartbeater
	logger     *zap.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(
	store *state.Store,
	monitorSvc port.MonitorService,
	writeSvc port.WriteService,
	historySvc port.HistoryService,
	session port.WalletSession,
	heartbeat Heartbeater,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		store:      store,
		monitorSvc: monitorSvc,
		writeSvc:   writeSvc,
		historySvc: historySvc,
		session:    session,
		heartbeat:  heartbeat,
		logger:     logger.Named("restapi"),
	}
}

// TokensResponse is the envelope for the token list endpoint.
type TokensResponse struct {
	Data struct {
		Tokens    []entity.Token `json:"tokens"`
		Selection string         `json:"selection,omitempty"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

// GetTokensHandler returns the token list with latest prices, the current
// selection and any feed refresh error state.
func (h *Handlers) GetTokensHandler(c *gin.Context) {
	tokens, feedErr := h.store.Tokens()

	var response TokensResponse
	response.Data.Tokens = tokens
	response.Data.Selection = h.store.Selection()
	response.Error = feedErr
	c.JSON(http.StatusOK, response)
}

type selectionRequest struct {
	ID string `json:"id" binding:"required"`
}

// SetSelectionHandler switches the selected token.
func (h *Handlers) SetSelectionHandler(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must contain a token id"})
		return
	}
	if err := h.store.Select(req.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"selection": req.ID}})
}

// MonitorResponse is the envelope for monitor snapshot reads.
type MonitorResponse struct {
	Data  *entity.MonitorSnapshot `json:"data,omitempty"`
	Error string                  `json:"error,omitempty"`
}

// GetMonitorHandler returns the latest monitor snapshot for a token, reading
// it live when the pollers have not covered this token yet. A stored error
// state is reported alongside the last good snapshot.
func (h *Handlers) GetMonitorHandler(c *gin.Context) {
	tokenID := c.Param("id")

	snapshot, errState, ok := h.store.Snapshot(tokenID)
	if !ok && errState == "" {
		fresh, err := h.monitorSvc.Snapshot(c.Request.Context(), tokenID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.store.SetSnapshot(tokenID, fresh)
		snapshot, ok = fresh, true
	}

	response := MonitorResponse{Error: errState}
	if ok {
		response.Data = &snapshot
	}
	c.JSON(http.StatusOK, response)
}

// UpdatePriceHandler runs the update-price write flow and returns the fresh
// post-write state.
func (h *Handlers) UpdatePriceHandler(c *gin.Context) {
	tokenID := c.Param("id")

	result, err := h.writeSvc.UpdatePrice(c.Request.Context(), tokenID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.applyWriteResult(c.Request.Context(), tokenID, result.LastPrice, result.Breached, true)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

type thresholdRequest struct {
	Threshold string `json:"threshold" binding:"required"`
}

// SetThresholdHandler runs the set-threshold write flow.
func (h *Handlers) SetThresholdHandler(c *gin.Context) {
	tokenID := c.Param("id")

	var req thresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must contain a threshold value"})
		return
	}

	result, err := h.writeSvc.SetThreshold(c.Request.Context(), tokenID, req.Threshold)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.applyWriteResult(c.Request.Context(), tokenID, 0, result.Breached, false)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// applyWriteResult folds fresh post-write fields into the stored snapshot so
// the next dashboard read reflects the write without waiting for a poll tick.
func (h *Handlers) applyWriteResult(ctx context.Context, tokenID string, lastPrice float64, breached, withPrice bool) {
	snapshot, _, ok := h.store.Snapshot(tokenID)
	if !ok {
		fresh, err := h.monitorSvc.Snapshot(ctx, tokenID)
		if err != nil {
			return
		}
		h.store.SetSnapshot(tokenID, fresh)
		return
	}
	snapshot.Breached = breached
	if withPrice {
		snapshot.LastPrice = lastPrice
	}
	h.store.SetSnapshot(tokenID, snapshot)
}

// GetHistoryHandler returns the chart series for a token.
func (h *Handlers) GetHistoryHandler(c *gin.Context) {
	tokenID := c.Param("id")

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
			return
		}
		days = parsed
	}

	points, err := h.historySvc.Series(c.Request.Context(), tokenID, days)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load price history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"prices": points}})
}

// GetWalletHandler reports the wallet session state.
func (h *Handlers) GetWalletHandler(c *gin.Context) {
	status := entity.WalletStatus{}
	if h.session != nil {
		ctx := c.Request.Context()
		if chainID, err := h.session.ChainID(ctx); err == nil {
			status.Connected = true
			status.ChainID = chainID
		}
		if accounts, err := h.session.Accounts(ctx); err == nil && len(accounts) > 0 {
			status.Account = accounts[0]
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": status})
}

// VisibilityHandler records a dashboard heartbeat.
func (h *Handlers) VisibilityHandler(c *gin.Context) {
	h.heartbeat.Heartbeat()
	c.Status(http.StatusNoContent)
}

// writeError maps the domain error taxonomy to distinct HTTP statuses and
// human-readable messages.
func (h *Handlers) writeError(c *gin.Context, err error) {
	var (
		switchErr *entity.NetworkSwitchError
		readErr   *entity.ContractReadError
		txErr     *entity.TransactionRejectedError
	)

	switch {
	case errors.Is(err, entity.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative number"})
	case errors.Is(err, entity.ErrUnknownToken):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown token"})
	case errors.Is(err, entity.ErrWalletUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "wallet not available, connect a wallet first"})
	case errors.Is(err, entity.ErrNetworkUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "wallet network not available"})
	case errors.As(err, &switchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": switchErr.Reason})
	case errors.As(err, &txErr):
		c.JSON(http.StatusConflict, gin.H{"error": txErr.Reason})
	case errors.As(err, &readErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load contract data"})
	default:
		h.logger.Error("Unhandled API error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
