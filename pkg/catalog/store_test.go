package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	t.Run("LoadReturnsInitialVerbatim", func(t *testing.T) {
		initial := sampleCatalog()
		store := NewStore(initial)
		assert.Equal(t, initial, store.Snapshot())
	})

	t.Run("SubscribeSeesCurrentThenReplacements", func(t *testing.T) {
		store := NewStore(sampleCatalog())

		var seen []Catalog
		store.Subscribe(func(c Catalog) { seen = append(seen, c) })

		next := DeleteFamily(store.Snapshot(), "Lora")
		got := store.Replace(next)

		assert.Equal(t, next, got)
		assert.Len(t, seen, 2)
		assert.Equal(t, next, seen[1])
	})

	t.Run("ReplaceWithEqualSnapshotStillNotifies", func(t *testing.T) {
		store := NewStore(sampleCatalog())
		calls := 0
		store.Subscribe(func(Catalog) { calls++ })

		store.Replace(store.Snapshot())
		assert.Equal(t, 2, calls)
	})

	t.Run("CancelStopsNotifications", func(t *testing.T) {
		store := NewStore(nil)
		a, b := 0, 0
		cancelA := store.Subscribe(func(Catalog) { a++ })
		store.Subscribe(func(Catalog) { b++ })

		cancelA()
		store.Replace(Catalog{})

		assert.Equal(t, 1, a)
		assert.Equal(t, 2, b)
	})
}
