package network

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

var fujiChain = entity.ChainMetadata{
	ChainID:          "0xa869",
	Name:             "Avalanche Fuji Testnet",
	RPCURL:           "https://rpc.example",
	CurrencyName:     "Avalanche",
	CurrencySymbol:   "AVAX",
	CurrencyDecimals: 18,
	BlockExplorerURL: "https://explorer.example/",
}

type fakeSession struct {
	chainID    string
	chainIDErr error
	switchErrs []error // consumed per call
	addErr     error

	switchCalls []string
	addCalls    []entity.ChainMetadata
}

func (f *fakeSession) ChainID(ctx context.Context) (string, error) {
	return f.chainID, f.chainIDErr
}

func (f *fakeSession) Accounts(ctx context.Context) ([]string, error) {
	return []string{"0xabc"}, nil
}

func (f *fakeSession) SwitchChain(ctx context.Context, chainID string) error {
	f.switchCalls = append(f.switchCalls, chainID)
	if len(f.switchErrs) > 0 {
		err := f.switchErrs[0]
		f.switchErrs = f.switchErrs[1:]
		return err
	}
	return nil
}

func (f *fakeSession) AddChain(ctx context.Context, chain entity.ChainMetadata) error {
	f.addCalls = append(f.addCalls, chain)
	return f.addErr
}

func (f *fakeSession) SendTransaction(ctx context.Context, tx entity.TxRequest) (string, error) {
	return "0xhash", nil
}

func TestEnsureNetwork_AlreadyMatching(t *testing.T) {
	session := &fakeSession{chainID: "0xa869"}
	guard := NewGuard(session, fujiChain, nil)

	require.NoError(t, guard.EnsureNetwork(context.Background()))
	assert.Empty(t, session.switchCalls, "matching chain must make zero wallet requests")
	assert.Empty(t, session.addCalls)
}

func TestEnsureNetwork_CaseInsensitiveMatch(t *testing.T) {
	session := &fakeSession{chainID: "0xA869"}
	guard := NewGuard(session, fujiChain, nil)

	require.NoError(t, guard.EnsureNetwork(context.Background()))
	assert.Empty(t, session.switchCalls)
}

func TestEnsureNetwork_SwitchSucceeds(t *testing.T) {
	session := &fakeSession{chainID: "0x1"}
	guard := NewGuard(session, fujiChain, nil)

	require.NoError(t, guard.EnsureNetwork(context.Background()))
	assert.Equal(t, []string{"0xa869"}, session.switchCalls)
	assert.Empty(t, session.addCalls)
}

func TestEnsureNetwork_UnrecognizedChainAddsThenRetriesOnce(t *testing.T) {
	session := &fakeSession{
		chainID:    "0x1",
		switchErrs: []error{fmt.Errorf("%w: 0xa869", entity.ErrUnrecognizedChain)},
	}
	guard := NewGuard(session, fujiChain, nil)

	require.NoError(t, guard.EnsureNetwork(context.Background()))
	require.Len(t, session.addCalls, 1, "exactly one add-chain request")
	assert.Equal(t, fujiChain, session.addCalls[0])
	assert.Equal(t, []string{"0xa869", "0xa869"}, session.switchCalls, "one switch plus exactly one retry")
}

func TestEnsureNetwork_AddChainFails(t *testing.T) {
	session := &fakeSession{
		chainID:    "0x1",
		switchErrs: []error{fmt.Errorf("%w: 0xa869", entity.ErrUnrecognizedChain)},
		addErr:     errors.New("user dismissed prompt"),
	}
	guard := NewGuard(session, fujiChain, nil)

	err := guard.EnsureNetwork(context.Background())
	require.Error(t, err)
	var switchErr *entity.NetworkSwitchError
	require.ErrorAs(t, err, &switchErr)
	assert.Contains(t, switchErr.Reason, "register")
	assert.Len(t, session.switchCalls, 1, "no retry after failed add")
}

func TestEnsureNetwork_RetryAfterAddFails(t *testing.T) {
	session := &fakeSession{
		chainID: "0x1",
		switchErrs: []error{
			fmt.Errorf("%w: 0xa869", entity.ErrUnrecognizedChain),
			errors.New("user rejected switch"),
		},
	}
	guard := NewGuard(session, fujiChain, nil)

	err := guard.EnsureNetwork(context.Background())
	var switchErr *entity.NetworkSwitchError
	require.ErrorAs(t, err, &switchErr)
	assert.Len(t, session.switchCalls, 2)
	assert.Len(t, session.addCalls, 1)
}

func TestEnsureNetwork_PlainSwitchFailure(t *testing.T) {
	session := &fakeSession{
		chainID:    "0x1",
		switchErrs: []error{errors.New("user rejected switch")},
	}
	guard := NewGuard(session, fujiChain, nil)

	err := guard.EnsureNetwork(context.Background())
	var switchErr *entity.NetworkSwitchError
	require.ErrorAs(t, err, &switchErr)
	assert.Empty(t, session.addCalls, "plain rejection must not trigger add-chain")
}

func TestEnsureNetwork_NoSession(t *testing.T) {
	guard := NewGuard(nil, fujiChain, nil)
	assert.ErrorIs(t, guard.EnsureNetwork(context.Background()), entity.ErrNetworkUnavailable)
}

func TestEnsureNetwork_ChainIDError(t *testing.T) {
	session := &fakeSession{chainIDErr: errors.New("bridge gone")}
	guard := NewGuard(session, fujiChain, nil)

	err := guard.EnsureNetwork(context.Background())
	var switchErr *entity.NetworkSwitchError
	require.ErrorAs(t, err, &switchErr)
	assert.Empty(t, session.switchCalls)
}
