// Package visibility tracks whether any dashboard is currently watching the
// service. The browser reports liveness through a heartbeat endpoint; when
// heartbeats stop arriving within the TTL the tracker flips to hidden and
// subscribed pollers pause.
package visibility

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tracker implements port.VisibilitySource.
type Tracker struct {
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	visible bool
	timer   *time.Timer
	subs    map[int]chan bool
	nextID  int
	closed  bool
}

// NewTracker creates a tracker that reports visible until the first TTL
// window passes without a heartbeat. Starting visible gives the pollers one
// refresh cycle at boot even before a dashboard connects.
func NewTracker(ttl time.Duration, startVisible bool, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		ttl:     ttl,
		logger:  logger.Named("visibility"),
		visible: startVisible,
		subs:    make(map[int]chan bool),
	}
	if startVisible {
		t.timer = time.AfterFunc(ttl, t.expire)
	}
	return t
}

// Heartbeat records dashboard liveness, flipping to visible if hidden and
// restarting the TTL window.
func (t *Tracker) Heartbeat() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.ttl, t.expire)
	} else {
		t.timer.Reset(t.ttl)
	}

	if !t.visible {
		t.visible = true
		t.logger.Debug("Dashboard visible again")
		t.broadcastLocked(true)
	}
}

func (t *Tracker) expire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.visible {
		return
	}
	t.visible = false
	t.logger.Debug("Dashboard heartbeat expired, marking hidden",
		zap.Duration("ttl", t.ttl))
	t.broadcastLocked(false)
}

// Visible reports the current state.
func (t *Tracker) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Subscribe returns a channel of state transitions and a cancel func.
func (t *Tracker) Subscribe() (<-chan bool, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	ch := make(chan bool, 1)
	t.subs[id] = ch

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
	return ch, cancel
}

// Close stops the TTL timer and detaches all subscribers.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.subs = make(map[int]chan bool)
}

// broadcastLocked delivers a transition to every subscriber. The channels are
// buffered with capacity one; a stale queued value is replaced so a slow
// subscriber always observes the latest state.
func (t *Tracker) broadcastLocked(v bool) {
	for _, ch := range t.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
