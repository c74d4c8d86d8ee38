package port

import (
	"context"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// WalletSession is the externally-owned wallet surface (account, chain,
// signing). State behind it is authoritative and must be re-checked before
// every write; implementations must not cache chain or account answers.
type WalletSession interface {
	// ChainID returns the wallet's current chain id as a hex string.
	ChainID(ctx context.Context) (string, error)

	// Accounts returns the connected account addresses, possibly empty.
	Accounts(ctx context.Context) ([]string, error)

	// SwitchChain asks the wallet to switch to the given chain id. An
	// unregistered chain is reported by wrapping entity.ErrUnrecognizedChain.
	SwitchChain(ctx context.Context, chainID string) error

	// AddChain asks the wallet to register the given network.
	AddChain(ctx context.Context, chain entity.ChainMetadata) error

	// SendTransaction hands the transaction to the wallet for signing and
	// submission and returns the transaction hash. A declined signature is
	// reported as *entity.TransactionRejectedError.
	SendTransaction(ctx context.Context, tx entity.TxRequest) (string, error)
}
