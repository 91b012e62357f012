package daemon

// Trigger coalesces rebuild requests into a single-slot signal. Requests that
// arrive while a rebuild is already pending or running collapse into at most
// one follow-up build, so a burst of filesystem events (an editor's
// save-as-multiple-writes) causes exactly one extra rebuild.
type Trigger struct {
	ch chan struct{}
}

// NewTrigger returns an empty single-slot trigger.
func NewTrigger() *Trigger {
	return &Trigger{ch: make(chan struct{}, 1)}
}

// Request marks a rebuild as pending. Never blocks; redundant requests are
// dropped while one is already pending.
func (t *Trigger) Request() {
	select {
	case t.ch <- struct{}{}:
	default:
	}
}

// Pending returns the channel a waiter receives rebuild signals from.
func (t *Trigger) Pending() <-chan struct{} {
	return t.ch
}
