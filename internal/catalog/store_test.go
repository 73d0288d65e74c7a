package catalog

import (
	"testing"

	"github.com/qkart/qkart/internal/api"
	"github.com/stretchr/testify/assert"
)

func Test_Store_ReplaceAndSnapshot(t *testing.T) {
	// given
	store := NewStore()
	first := []api.Product{{ID: "A", Name: "Phone"}}
	second := []api.Product{{ID: "B", Name: "Basketball"}, {ID: "C", Name: "Watch"}}
	// when
	store.Replace(first)
	snapshot := store.Snapshot()
	store.Replace(second)
	// then: the last write wins and older snapshots are unaffected
	assert.Equal(t, first, snapshot)
	assert.Equal(t, second, store.Snapshot())
	assert.False(t, store.NoResults())
}

func Test_Store_SnapshotIsACopy(t *testing.T) {
	// given
	store := NewStore()
	store.Replace([]api.Product{{ID: "A", Name: "Phone"}})
	// when: a caller mutates its snapshot
	snapshot := store.Snapshot()
	snapshot[0].Name = "changed"
	// then: the store is unaffected
	assert.Equal(t, "Phone", store.Snapshot()[0].Name)
}

func Test_Store_ReplaceEmpty(t *testing.T) {
	// given
	store := NewStore()
	store.Replace([]api.Product{{ID: "A"}})
	// when
	store.ReplaceEmpty()
	// then: empty snapshot plus the distinct no-results indicator
	assert.Empty(t, store.Snapshot())
	assert.True(t, store.NoResults())
	// and a later replace clears the indicator
	store.Replace([]api.Product{{ID: "B"}})
	assert.False(t, store.NoResults())
}
