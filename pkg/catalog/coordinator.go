package catalog

import "github.com/joeblew999/plat-fonts/pkg/log"

// State of the deletion workflow.
type State int

const (
	// Idle means no delete is waiting for confirmation.
	Idle State = iota
	// PendingConfirmation means a target sits in the slot.
	PendingConfirmation
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingConfirmation:
		return "pending_confirmation"
	default:
		return "unknown"
	}
}

// Coordinator gates deletes behind a confirmation step. It holds a single
// pending target; a new request replaces an unconfirmed one.
type Coordinator struct {
	store   *Store
	pending *Target
}

// NewCoordinator returns an idle coordinator applying deletes to store.
func NewCoordinator(store *Store) *Coordinator {
	return &Coordinator{store: store}
}

// State reports the current workflow state.
func (c *Coordinator) State() State {
	if c.pending == nil {
		return Idle
	}
	return PendingConfirmation
}

// Pending returns the target waiting for confirmation, if any.
func (c *Coordinator) Pending() (Target, bool) {
	if c.pending == nil {
		return Target{}, false
	}
	return *c.pending, true
}

// RequestDelete puts t in the slot. Last write wins.
func (c *Coordinator) RequestDelete(t Target) {
	if c.pending != nil {
		log.Debug("Replacing pending delete", "discarded", c.pending.String(), "target", t.String())
	}
	c.pending = &t
}

// Confirm applies the pending delete to the store and returns to Idle.
// It reports false, doing nothing, when no delete is pending.
func (c *Coordinator) Confirm() bool {
	if c.pending == nil {
		return false
	}
	t := *c.pending
	c.pending = nil
	c.store.Replace(Apply(c.store.Snapshot(), t))
	return true
}

// Cancel drops the pending delete without touching the catalog.
func (c *Coordinator) Cancel() bool {
	if c.pending == nil {
		return false
	}
	c.pending = nil
	return true
}
