package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleFaceCatalog() Catalog {
	return Catalog{{
		FontFamily: "A",
		FontFace: []FontFace{{
			FontWeight: "400",
			FontStyle:  "normal",
			Src:        []string{"a.woff"},
		}},
	}}
}

func TestCoordinator(t *testing.T) {
	t.Run("ConfirmFaceDelete", func(t *testing.T) {
		store := NewStore(singleFaceCatalog())
		coord := NewCoordinator(store)

		coord.RequestDelete(FaceTarget("A", "400", "normal"))
		assert.Equal(t, PendingConfirmation, coord.State())
		require.True(t, coord.Confirm())

		want := Catalog{{
			FontFamily:      "A",
			ShouldBeRemoved: true,
			FontFace: []FontFace{{
				FontWeight:      "400",
				FontStyle:       "normal",
				Src:             []string{"a.woff"},
				ShouldBeRemoved: true,
			}},
		}}
		assert.Equal(t, want, store.Snapshot())
		assert.Equal(t, Idle, coord.State())
		_, pending := coord.Pending()
		assert.False(t, pending)
	})

	t.Run("CancelLeavesCatalog", func(t *testing.T) {
		initial := singleFaceCatalog()
		store := NewStore(initial)
		coord := NewCoordinator(store)

		coord.RequestDelete(FamilyTarget("A"))
		require.True(t, coord.Cancel())

		assert.Equal(t, initial, store.Snapshot())
		assert.Equal(t, Idle, coord.State())
	})

	t.Run("LastRequestWins", func(t *testing.T) {
		store := NewStore(sampleCatalog())
		coord := NewCoordinator(store)

		coord.RequestDelete(FamilyTarget("Lora"))
		coord.RequestDelete(FaceTarget("Inter", "700", "normal"))

		pending, ok := coord.Pending()
		require.True(t, ok)
		assert.Equal(t, FaceTarget("Inter", "700", "normal"), pending)

		coord.Confirm()
		snap := store.Snapshot()
		assert.False(t, snap[1].ShouldBeRemoved, "first request was discarded")
		assert.True(t, snap[0].FontFace[1].ShouldBeRemoved)
	})

	t.Run("IdleConfirmAndCancelAreNoOps", func(t *testing.T) {
		store := NewStore(sampleCatalog())
		coord := NewCoordinator(store)

		calls := 0
		store.Subscribe(func(Catalog) { calls++ })

		assert.False(t, coord.Confirm())
		assert.False(t, coord.Cancel())
		assert.Equal(t, Idle, coord.State())
		assert.Equal(t, 1, calls, "only the subscription snapshot")
	})

	t.Run("UnknownTargetStillReplaces", func(t *testing.T) {
		initial := sampleCatalog()
		store := NewStore(initial)
		coord := NewCoordinator(store)

		calls := 0
		store.Subscribe(func(Catalog) { calls++ })

		coord.RequestDelete(FamilyTarget("Missing"))
		coord.Confirm()
		assert.Equal(t, 2, calls)
		assert.Equal(t, initial, store.Snapshot())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending_confirmation", PendingConfirmation.String())
	assert.Equal(t, "unknown", State(9).String())
}
