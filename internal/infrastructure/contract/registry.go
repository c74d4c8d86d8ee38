// Package contract binds PriceMonitor and price-feed contracts to the shared
// read-only connection and, for writes, to a per-call wallet session. Handles
// are capability bindings (address + connection), never cached results.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
	netguard "github.com/DinosaurDerek/rocketlink/internal/infrastructure/network"
	"github.com/DinosaurDerek/rocketlink/internal/infrastructure/network/client"
	"github.com/DinosaurDerek/rocketlink/pkg/metrics"
)

const receiptPollInterval = 2 * time.Second

// Registry resolves token ids to deployed monitor addresses and implements
// the feed/monitor read and write ports.
type Registry struct {
	provider  *client.Provider
	guard     *netguard.Guard
	session   port.WalletSession
	addresses map[string]common.Address
	logger    *zap.Logger
}

// NewRegistry creates the registry. session may be nil when no wallet bridge
// is configured; read operations work regardless.
func NewRegistry(
	provider *client.Provider,
	guard *netguard.Guard,
	session port.WalletSession,
	monitorAddresses map[string]string,
	logger *zap.Logger,
) *Registry {
	initParsedABIs()
	if logger == nil {
		logger = zap.NewNop()
	}

	addresses := make(map[string]common.Address, len(monitorAddresses))
	for id, addr := range monitorAddresses {
		addresses[id] = common.HexToAddress(addr)
	}

	return &Registry{
		provider:  provider,
		guard:     guard,
		session:   session,
		addresses: addresses,
		logger:    logger.Named("contract_registry"),
	}
}

func (r *Registry) monitorAddress(tokenID string) (common.Address, error) {
	addr, ok := r.addresses[tokenID]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: no monitor contract for %q", entity.ErrUnknownToken, tokenID)
	}
	return addr, nil
}

func (r *Registry) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := r.provider.CallTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// ReadFeedPrice reads latestRoundData from the given feed and returns the raw
// answer field.
func (r *Registry) ReadFeedPrice(ctx context.Context, feedAddress string) (*big.Int, error) {
	ec, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	input, err := parsedAggregatorABI.Pack("latestRoundData")
	if err != nil {
		return nil, fmt.Errorf("failed to pack latestRoundData: %w", err)
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	addr := common.HexToAddress(feedAddress)
	start := time.Now()
	output, err := ec.CallContract(callCtx, ethereum.CallMsg{To: &addr, Data: input}, nil)
	metrics.RPCCallDuration.WithLabelValues("latestRoundData").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("latestRoundData call to %s failed: %w", feedAddress, err)
	}

	unpacked, err := parsedAggregatorABI.Unpack("latestRoundData", output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack latestRoundData from %s: %w", feedAddress, err)
	}
	if len(unpacked) < 2 {
		return nil, fmt.Errorf("latestRoundData from %s returned %d values", feedAddress, len(unpacked))
	}
	answer, ok := unpacked[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("latestRoundData answer from %s has type %T", feedAddress, unpacked[1])
	}
	return answer, nil
}

// monitor view methods batched into one logical refresh, in this order.
var snapshotMethods = [...]string{"isThresholdBreached", "threshold", "lastPrice", "lastUpdatedAt"}

// ReadMonitorState reads the four observable monitor fields as a single
// JSON-RPC batch so they reflect the same chain state.
func (r *Registry) ReadMonitorState(ctx context.Context, tokenID string) (entity.RawMonitorState, error) {
	var state entity.RawMonitorState

	addr, err := r.monitorAddress(tokenID)
	if err != nil {
		return state, err
	}
	rawRPC, err := r.provider.RPC(ctx)
	if err != nil {
		return state, err
	}

	batch := make([]rpc.BatchElem, len(snapshotMethods))
	for i, method := range snapshotMethods {
		input, packErr := parsedMonitorABI.Pack(method)
		if packErr != nil {
			return state, fmt.Errorf("failed to pack %s: %w", method, packErr)
		}
		batch[i] = rpc.BatchElem{
			Method: "eth_call",
			Args: []interface{}{
				map[string]interface{}{
					"to":   addr,
					"data": hexutil.Bytes(input),
				},
				"latest",
			},
			Result: new(hexutil.Bytes),
		}
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	start := time.Now()
	err = rawRPC.BatchCallContext(callCtx, batch)
	metrics.RPCCallDuration.WithLabelValues("monitorSnapshot").Observe(time.Since(start).Seconds())
	if err != nil {
		return state, fmt.Errorf("monitor snapshot batch for %q failed: %w", tokenID, err)
	}

	values := make([]interface{}, len(snapshotMethods))
	for i, elem := range batch {
		if elem.Error != nil {
			return state, fmt.Errorf("%s call for %q failed: %w", snapshotMethods[i], tokenID, elem.Error)
		}
		raw, ok := elem.Result.(*hexutil.Bytes)
		if !ok || raw == nil {
			return state, fmt.Errorf("%s call for %q returned no data", snapshotMethods[i], tokenID)
		}
		unpacked, unpackErr := parsedMonitorABI.Unpack(snapshotMethods[i], *raw)
		if unpackErr != nil {
			return state, fmt.Errorf("failed to unpack %s for %q: %w", snapshotMethods[i], tokenID, unpackErr)
		}
		if len(unpacked) == 0 {
			return state, fmt.Errorf("%s for %q unpacked to no values", snapshotMethods[i], tokenID)
		}
		values[i] = unpacked[0]
	}

	breached, ok := values[0].(bool)
	if !ok {
		return state, fmt.Errorf("isThresholdBreached for %q has type %T", tokenID, values[0])
	}
	state.Breached = breached
	for i, dst := range []**big.Int{&state.Threshold, &state.LastPrice, &state.UpdatedAt} {
		v, ok := values[i+1].(*big.Int)
		if !ok {
			return state, fmt.Errorf("%s for %q has type %T", snapshotMethods[i+1], tokenID, values[i+1])
		}
		*dst = v
	}
	return state, nil
}

// ReadLastPrice reads the monitor's lastPrice field.
func (r *Registry) ReadLastPrice(ctx context.Context, tokenID string) (*big.Int, error) {
	out, err := r.callMonitor(ctx, tokenID, "lastPrice")
	if err != nil {
		return nil, err
	}
	v, ok := out.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("lastPrice for %q has type %T", tokenID, out)
	}
	return v, nil
}

// ReadBreached reads the monitor's breach flag.
func (r *Registry) ReadBreached(ctx context.Context, tokenID string) (bool, error) {
	out, err := r.callMonitor(ctx, tokenID, "isThresholdBreached")
	if err != nil {
		return false, err
	}
	v, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("isThresholdBreached for %q has type %T", tokenID, out)
	}
	return v, nil
}

// ReadConfiguredFeed reads the feed address the monitor contract was deployed
// against, used to cross-check the token catalog at startup.
func (r *Registry) ReadConfiguredFeed(ctx context.Context, tokenID string) (string, error) {
	out, err := r.callMonitor(ctx, tokenID, "priceFeed")
	if err != nil {
		return "", err
	}
	v, ok := out.(common.Address)
	if !ok {
		return "", fmt.Errorf("priceFeed for %q has type %T", tokenID, out)
	}
	return v.Hex(), nil
}

func (r *Registry) callMonitor(ctx context.Context, tokenID, method string) (interface{}, error) {
	addr, err := r.monitorAddress(tokenID)
	if err != nil {
		return nil, err
	}
	ec, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	input, err := parsedMonitorABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	start := time.Now()
	output, err := ec.CallContract(callCtx, ethereum.CallMsg{To: &addr, Data: input}, nil)
	metrics.RPCCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s call for %q failed: %w", method, tokenID, err)
	}

	unpacked, err := parsedMonitorABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s for %q: %w", method, tokenID, err)
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("%s for %q unpacked to no values", method, tokenID)
	}
	return unpacked[0], nil
}

// UpdatePrice submits the updatePrice transaction and waits for inclusion.
func (r *Registry) UpdatePrice(ctx context.Context, tokenID string) error {
	return r.submit(ctx, tokenID, "updatePrice")
}

// SetThreshold submits the setThreshold transaction and waits for inclusion.
func (r *Registry) SetThreshold(ctx context.Context, tokenID string, raw *big.Int) error {
	return r.submit(ctx, tokenID, "setThreshold", raw)
}

// submit re-validates the chain, obtains the wallet account, sends the
// transaction through the wallet session and blocks until it is mined. The
// wait is unbounded apart from ctx cancellation.
func (r *Registry) submit(ctx context.Context, tokenID, method string, args ...interface{}) error {
	if r.session == nil {
		metrics.TransactionsSubmitted.WithLabelValues(method, "failed").Inc()
		return entity.ErrWalletUnavailable
	}
	if err := r.guard.EnsureNetwork(ctx); err != nil {
		metrics.TransactionsSubmitted.WithLabelValues(method, "failed").Inc()
		return err
	}

	addr, err := r.monitorAddress(tokenID)
	if err != nil {
		return err
	}
	accounts, err := r.session.Accounts(ctx)
	if err != nil {
		metrics.TransactionsSubmitted.WithLabelValues(method, "failed").Inc()
		return fmt.Errorf("%w: %v", entity.ErrWalletUnavailable, err)
	}
	if len(accounts) == 0 {
		metrics.TransactionsSubmitted.WithLabelValues(method, "failed").Inc()
		return fmt.Errorf("%w: no account connected", entity.ErrWalletUnavailable)
	}

	input, err := parsedMonitorABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	r.logger.Info("Submitting transaction",
		zap.String("method", method),
		zap.String("token", tokenID),
		zap.String("contract", addr.Hex()))

	hash, err := r.session.SendTransaction(ctx, entity.TxRequest{
		From: accounts[0],
		To:   addr.Hex(),
		Data: input,
	})
	if err != nil {
		metrics.TransactionsSubmitted.WithLabelValues(method, "rejected").Inc()
		return err
	}

	if err := r.waitMined(ctx, hash); err != nil {
		metrics.TransactionsSubmitted.WithLabelValues(method, "failed").Inc()
		return err
	}

	metrics.TransactionsSubmitted.WithLabelValues(method, "mined").Inc()
	r.logger.Info("Transaction mined", zap.String("method", method), zap.String("tx", hash))
	return nil
}

// waitMined polls for the receipt until the transaction is included. A
// reverted transaction surfaces as *entity.TransactionRejectedError.
func (r *Registry) waitMined(ctx context.Context, hash string) error {
	ec, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}
	txHash := common.HexToHash(hash)

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := ec.TransactionReceipt(ctx, txHash)
		if err == nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return &entity.TransactionRejectedError{
					Reason: fmt.Sprintf("transaction %s reverted on chain", hash),
				}
			}
			return nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return fmt.Errorf("failed to fetch receipt for %s: %w", hash, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
