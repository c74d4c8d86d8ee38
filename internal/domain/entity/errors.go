package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the read and write paths. Write operations
// fail fast on these; read paths never touch the wallet session.
var (
	// ErrWalletUnavailable means no wallet bridge is configured or reachable.
	ErrWalletUnavailable = errors.New("wallet not available")

	// ErrNetworkUnavailable means the chain check could not even start
	// because there is no wallet session to ask.
	ErrNetworkUnavailable = errors.New("wallet network not available")

	// ErrUnrecognizedChain is wrapped into switch errors when the wallet
	// reports provider error code 4902 (chain not registered).
	ErrUnrecognizedChain = errors.New("chain not recognized by wallet")

	// ErrInvalidAmount rejects empty, non-numeric or negative user input
	// before any network call is made.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownToken means the token id is not present in the catalog.
	ErrUnknownToken = errors.New("unknown token")
)

// NetworkSwitchError reports that the active chain could not be reconciled
// with the required one. The pending write must be aborted; no chain state
// has been changed.
type NetworkSwitchError struct {
	Reason string
	Err    error
}

func (e *NetworkSwitchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network switch failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("network switch failed: %s", e.Reason)
}

func (e *NetworkSwitchError) Unwrap() error { return e.Err }

// ContractReadError wraps an RPC read failure. The caller retries on the next
// poll tick; nothing is retried inline.
type ContractReadError struct {
	TokenID string
	Err     error
}

func (e *ContractReadError) Error() string {
	return fmt.Sprintf("contract read failed for %q: %v", e.TokenID, e.Err)
}

func (e *ContractReadError) Unwrap() error { return e.Err }

// TransactionRejectedError covers both a user declining to sign (provider
// code 4001) and an on-chain revert. The reason is user-actionable and is
// surfaced verbatim.
type TransactionRejectedError struct {
	Reason string
	Err    error
}

func (e *TransactionRejectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transaction rejected: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transaction rejected: %s", e.Reason)
}

func (e *TransactionRejectedError) Unwrap() error { return e.Err }
