// Package session hosts font editing sessions: one catalog store with its
// deletion workflow and sync bridge per open page.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
)

// ErrClosed is returned when a session is used after it was closed or
// evicted. Its catalog is no longer synchronized.
var ErrClosed = errors.New("session closed")

// Session is one editing session. Its methods are safe for concurrent use.
type Session struct {
	ID        string
	Theme     string
	Nonce     string
	Source    string
	Revision  int64
	CreatedAt time.Time

	mu       sync.Mutex
	store    *catalog.Store
	coord    *catalog.Coordinator
	bridge   *syncbridge.Bridge
	detach   func()
	closed   bool
	resolver catalog.AssetResolver
}

// RequestDelete stages t for confirmation, replacing any staged target.
func (s *Session) RequestDelete(t catalog.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := "requested"
	if s.coord.State() == catalog.PendingConfirmation {
		outcome = "replaced"
	}
	s.coord.RequestDelete(t)
	deleteRequests.Inc(outcome)
}

// Confirm applies the staged delete. It reports false when nothing was
// staged, and ErrClosed without touching the catalog once the session is
// closed.
func (s *Session) Confirm() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}
	t, ok := s.coord.Pending()
	if !ok || !s.coord.Confirm() {
		return false, nil
	}
	kind := "family"
	if t.IsFace() {
		kind = "face"
	}
	deletions.Inc(kind)
	deleteRequests.Inc("confirmed")
	return true, nil
}

// Cancel drops the staged delete.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.coord.Cancel() {
		return false
	}
	deleteRequests.Inc("cancelled")
	return true
}

// Pending returns the staged target, if any.
func (s *Session) Pending() (catalog.Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.Pending()
}

// State reports the deletion workflow state.
func (s *Session) State() catalog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.State()
}

// Snapshot returns the current catalog.
func (s *Session) Snapshot() catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Outline projects the current catalog.
func (s *Session) Outline() catalog.Outline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Project(s.store.Snapshot(), s.resolver)
}

// Submitted counts catalog submissions made by this session.
func (s *Session) Submitted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bridge.Submitted()
}

// Closed reports whether the session was closed or evicted.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
}
