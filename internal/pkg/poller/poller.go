// Package poller implements the recurring-callback driver behind every
// refresh loop. A poller fires its callback immediately on start, then once
// per interval, and can pause while the dashboard is not being watched.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
)

const minInterval = 100 * time.Millisecond

// Options configures a single poller.
type Options struct {
	// Name identifies the poller in logs and metrics.
	Name string

	// Interval is the spacing between ticks.
	Interval time.Duration

	// Visibility, when set together with RespectVisibility, pauses the
	// poller while the source reports hidden. Resuming fires one immediate
	// tick and restarts the interval.
	RespectVisibility bool
	Visibility        port.VisibilitySource

	Logger *zap.Logger
}

// Handle controls a running poller. Stop is safe to call more than once.
type Handle struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stop cancels the outstanding timer and detaches visibility observation. It
// returns once the polling goroutine has exited; no callback starts after
// Stop returns.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Start launches the polling loop. The callback runs in a single goroutine,
// so invocations never overlap; a slow cycle delays the next tick instead of
// stacking a second one.
func Start(ctx context.Context, opts Options, callback func(context.Context)) *Handle {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("poller").With(zap.String("name", opts.Name))

	if opts.Interval < minInterval {
		logger.Warn("Polling interval below minimum, clamping",
			zap.Duration("requested", opts.Interval),
			zap.Duration("minimum", minInterval))
		opts.Interval = minInterval
	}

	h := &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	var changes <-chan bool
	cancelSub := func() {}
	visible := true
	if opts.RespectVisibility && opts.Visibility != nil {
		changes, cancelSub = opts.Visibility.Subscribe()
		visible = opts.Visibility.Visible()
	}

	go func() {
		defer close(h.done)
		defer cancelSub()

		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()

		if visible {
			callback(ctx)
		} else {
			logger.Debug("Starting paused, waiting for first visibility")
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-h.stop:
				return
			case v := <-changes:
				if v == visible {
					continue
				}
				visible = v
				if visible {
					logger.Debug("Resuming polling")
					callback(ctx)
					ticker.Reset(opts.Interval)
				} else {
					logger.Debug("Pausing polling")
				}
			case <-ticker.C:
				if visible {
					callback(ctx)
				}
			}
		}
	}()

	return h
}
