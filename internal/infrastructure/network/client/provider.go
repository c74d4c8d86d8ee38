// Package client owns the read-only RPC connection to the target network.
// The connection is constructed lazily, once, and shared by reference across
// all read operations; it carries no signer and is safe for concurrent use.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const defaultDialTimeout = 10 * time.Second

// Provider hands out the shared read-only client, dialing on first use.
type Provider struct {
	rpcURL      string
	dialTimeout time.Duration
	callTimeout time.Duration
	logger      *zap.Logger

	mu     sync.Mutex
	client *ethclient.Client
}

// NewProvider creates a provider for the configured RPC endpoint. Nothing is
// dialed until the first read needs a connection.
func NewProvider(rpcURL string, dialTimeout, callTimeout time.Duration, logger *zap.Logger) *Provider {
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		rpcURL:      rpcURL,
		dialTimeout: dialTimeout,
		callTimeout: callTimeout,
		logger:      logger.Named("rpc_provider"),
	}
}

// Client returns the shared read-only client, dialing it on first use.
func (p *Provider) Client(ctx context.Context) (*ethclient.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.dialTimeout)
	defer cancel()

	p.logger.Info("Dialing RPC endpoint", zap.String("url", p.rpcURL))
	c, err := ethclient.DialContext(dialCtx, p.rpcURL)
	if err != nil {
		p.logger.Error("Failed to dial RPC endpoint", zap.String("url", p.rpcURL), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", p.rpcURL, err)
	}

	p.client = c
	return c, nil
}

// RPC returns the raw RPC client backing the shared connection, used for
// batched eth_call reads.
func (p *Provider) RPC(ctx context.Context) (*rpc.Client, error) {
	c, err := p.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.Client(), nil
}

// CallTimeout is the per-call budget read operations should apply.
func (p *Provider) CallTimeout() time.Duration {
	return p.callTimeout
}

// Close tears down the shared connection if it was ever dialed.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}
