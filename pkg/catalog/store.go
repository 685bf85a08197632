package catalog

// Listener receives catalog snapshots.
type Listener func(Catalog)

// Store holds the latest catalog snapshot and tells listeners about every
// replacement. It never compares snapshots: each Replace is a change.
//
// Store is not safe for concurrent use; callers serialize access.
type Store struct {
	current   Catalog
	listeners map[int]Listener
	order     []int
	nextID    int
}

// NewStore seeds a store with the initial snapshot, returned verbatim by
// Snapshot until the first Replace.
func NewStore(initial Catalog) *Store {
	return &Store{
		current:   initial,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns the current catalog.
func (s *Store) Snapshot() Catalog {
	return s.current
}

// Replace makes next the current snapshot and notifies listeners.
func (s *Store) Replace(next Catalog) Catalog {
	s.current = next
	for _, id := range s.order {
		if fn, ok := s.listeners[id]; ok {
			fn(next)
		}
	}
	return next
}

// Subscribe registers fn and immediately hands it the current snapshot.
// The returned func removes the listener.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)

	fn(s.current)

	return func() {
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
