// Package state holds the UI-consumable process state: the token set with
// latest prices, the current selection, and per-token monitor snapshots with
// their error states. Pollers write, the REST layer reads.
package state

import (
	"sync"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// Store is safe for concurrent use. Token lists and snapshots are replaced
// wholesale; a failed refresh never blanks previous data, it records an error
// alongside so the UI can signal it instead of showing stale success.
type Store struct {
	mu          sync.RWMutex
	tokens      []entity.Token
	selection   string
	snapshots   map[string]entity.MonitorSnapshot
	monitorErrs map[string]string
	feedErr     string
	closed      bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		snapshots:   make(map[string]entity.MonitorSnapshot),
		monitorErrs: make(map[string]string),
	}
}

// ReplaceTokens swaps in a fresh token list and clears the feed error state.
// The first non-empty replacement establishes the default selection. Results
// arriving after Close are discarded.
func (s *Store) ReplaceTokens(tokens []entity.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.tokens = tokens
	s.feedErr = ""
	if s.selection == "" && len(tokens) > 0 {
		s.selection = tokens[0].ID
	}
}

// SetFeedError records a batch-level feed refresh failure without touching
// the existing token data.
func (s *Store) SetFeedError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.feedErr = msg
}

// Tokens returns a copy of the current token list and the feed error state.
func (s *Store) Tokens() ([]entity.Token, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens := make([]entity.Token, len(s.tokens))
	copy(tokens, s.tokens)
	return tokens, s.feedErr
}

// Selection returns the currently selected token id, empty before any data
// has arrived.
func (s *Store) Selection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Select switches the selection to the given token id.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.ID == id {
			s.selection = id
			return nil
		}
	}
	return entity.ErrUnknownToken
}

// SetSnapshot stores a fresh monitor snapshot and clears the token's monitor
// error state.
func (s *Store) SetSnapshot(tokenID string, snapshot entity.MonitorSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.snapshots[tokenID] = snapshot
	delete(s.monitorErrs, tokenID)
}

// SetMonitorError records a snapshot refresh failure; the previous snapshot,
// if any, stays untouched.
func (s *Store) SetMonitorError(tokenID, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.monitorErrs[tokenID] = msg
}

// Snapshot returns the latest snapshot for a token, the error state, and
// whether a snapshot has ever been stored.
func (s *Store) Snapshot(tokenID string) (entity.MonitorSnapshot, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[tokenID]
	return snap, s.monitorErrs[tokenID], ok
}

// Close marks the store torn down; late poll results are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
