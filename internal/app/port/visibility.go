package port

// VisibilitySource reports whether the dashboard is currently being watched.
// Pollers subscribe to pause while hidden.
type VisibilitySource interface {
	// Visible returns the current state.
	Visible() bool

	// Subscribe returns a channel of state transitions and a cancel func
	// that detaches the subscription. The channel only carries changes, not
	// the initial state.
	Subscribe() (<-chan bool, func())
}
