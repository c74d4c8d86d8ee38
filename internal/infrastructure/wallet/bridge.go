// Package wallet implements the wallet session over the provider JSON-RPC
// surface exposed by an external wallet bridge. The bridge owns accounts and
// the active chain; this package only relays requests and maps provider
// error codes onto the domain error taxonomy.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// Provider error codes per EIP-1193 / EIP-3085.
const (
	codeUserRejected      = 4001
	codeUnrecognizedChain = 4902
)

// Bridge implements port.WalletSession over an rpc.Client.
type Bridge struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

// Dial connects to the wallet bridge endpoint. An empty URL means no wallet
// is configured and fails with entity.ErrWalletUnavailable so write paths
// fail fast while read paths stay untouched.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Bridge, error) {
	if url == "" {
		return nil, entity.ErrWalletUnavailable
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrWalletUnavailable, err)
	}
	return &Bridge{rpc: c, logger: logger.Named("wallet_bridge")}, nil
}

// ChainID returns the wallet's current chain id as a hex string.
func (b *Bridge) ChainID(ctx context.Context) (string, error) {
	var id string
	if err := b.rpc.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return "", fmt.Errorf("eth_chainId failed: %w", err)
	}
	return id, nil
}

// Accounts returns the connected account addresses.
func (b *Bridge) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := b.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts failed: %w", err)
	}
	return accounts, nil
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

// SwitchChain asks the wallet to make chainID the active chain. May pop a
// wallet prompt; latency is human-paced and unbounded.
func (b *Bridge) SwitchChain(ctx context.Context, chainID string) error {
	err := b.rpc.CallContext(ctx, nil, "wallet_switchEthereumChain", switchChainParams{ChainID: chainID})
	if err == nil {
		return nil
	}
	if hasErrorCode(err, codeUnrecognizedChain) {
		b.logger.Info("Wallet does not know the requested chain", zap.String("chain_id", chainID))
		return fmt.Errorf("%w: %s", entity.ErrUnrecognizedChain, chainID)
	}
	return fmt.Errorf("wallet_switchEthereumChain failed: %w", err)
}

type addChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCURLs           []string       `json:"rpcUrls"`
	NativeCurrency    nativeCurrency `json:"nativeCurrency"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

type nativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// AddChain asks the wallet to register the target network.
func (b *Bridge) AddChain(ctx context.Context, chain entity.ChainMetadata) error {
	params := addChainParams{
		ChainID:   chain.ChainID,
		ChainName: chain.Name,
		RPCURLs:   []string{chain.RPCURL},
		NativeCurrency: nativeCurrency{
			Name:     chain.CurrencyName,
			Symbol:   chain.CurrencySymbol,
			Decimals: chain.CurrencyDecimals,
		},
		BlockExplorerURLs: []string{chain.BlockExplorerURL},
	}
	if err := b.rpc.CallContext(ctx, nil, "wallet_addEthereumChain", params); err != nil {
		return fmt.Errorf("wallet_addEthereumChain failed for %s: %w", chain.Name, err)
	}
	return nil
}

type sendTxParams struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Data hexutil.Bytes `json:"data"`
}

// SendTransaction hands the transaction to the wallet for signing and
// submission. A declined signature (code 4001) is surfaced as
// *entity.TransactionRejectedError.
func (b *Bridge) SendTransaction(ctx context.Context, tx entity.TxRequest) (string, error) {
	params := sendTxParams{From: tx.From, To: tx.To, Data: tx.Data}

	var hash string
	err := b.rpc.CallContext(ctx, &hash, "eth_sendTransaction", params)
	if err == nil {
		return hash, nil
	}
	if hasErrorCode(err, codeUserRejected) {
		return "", &entity.TransactionRejectedError{Reason: "signing declined in wallet", Err: err}
	}
	return "", fmt.Errorf("eth_sendTransaction failed: %w", err)
}

// Close releases the bridge connection.
func (b *Bridge) Close() {
	b.rpc.Close()
}

func hasErrorCode(err error, code int) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == code
}
