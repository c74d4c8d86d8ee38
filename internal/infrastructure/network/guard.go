// Package network guards write operations against chain mismatch: before any
// transaction is signed the wallet must be on the configured chain, switched
// to it, or have it registered and then switched.
package network

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// Guard validates the wallet's active chain against the required one. The
// required chain is fixed at construction time and threaded through; nothing
// reads it from package state.
type Guard struct {
	session port.WalletSession
	chain   entity.ChainMetadata
	logger  *zap.Logger
}

// NewGuard creates a guard bound to one wallet session and one target chain.
func NewGuard(session port.WalletSession, chain entity.ChainMetadata, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{session: session, chain: chain, logger: logger.Named("network_guard")}
}

// EnsureNetwork returns nil once the wallet's active chain matches the
// required chain id. A matching chain is a no-op with zero wallet requests.
// An unrecognized chain triggers one add-chain request followed by exactly
// one retry of the switch. Any failure aborts the pending write with
// *entity.NetworkSwitchError; no chain state has changed in that case.
func (g *Guard) EnsureNetwork(ctx context.Context) error {
	if g.session == nil {
		return entity.ErrNetworkUnavailable
	}

	current, err := g.session.ChainID(ctx)
	if err != nil {
		return &entity.NetworkSwitchError{Reason: "could not determine active chain", Err: err}
	}
	if strings.EqualFold(current, g.chain.ChainID) {
		return nil
	}

	g.logger.Info("Wallet on wrong chain, requesting switch",
		zap.String("current", current),
		zap.String("required", g.chain.ChainID))

	switchErr := g.session.SwitchChain(ctx, g.chain.ChainID)
	if switchErr == nil {
		return nil
	}

	if !errors.Is(switchErr, entity.ErrUnrecognizedChain) {
		return &entity.NetworkSwitchError{
			Reason: fmt.Sprintf("please switch your wallet to %s", g.chain.Name),
			Err:    switchErr,
		}
	}

	g.logger.Info("Chain unknown to wallet, registering it", zap.String("chain", g.chain.Name))
	if addErr := g.session.AddChain(ctx, g.chain); addErr != nil {
		return &entity.NetworkSwitchError{
			Reason: fmt.Sprintf("could not register %s in the wallet", g.chain.Name),
			Err:    addErr,
		}
	}
	if retryErr := g.session.SwitchChain(ctx, g.chain.ChainID); retryErr != nil {
		return &entity.NetworkSwitchError{
			Reason: fmt.Sprintf("%s was registered but switching to it failed", g.chain.Name),
			Err:    retryErr,
		}
	}
	return nil
}
