package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelinehq/treeline/pkg/types"
)

func TestInMemoryRegisterAndGet(t *testing.T) {
	reg := NewInMemory()
	reg.Register(&types.Ruleset{ID: "items-tree", Version: "1.0.0"})

	rs, err := reg.Get(context.Background(), "items-tree")
	require.NoError(t, err)
	require.NotNil(t, rs)
	assert.Equal(t, "1.0.0", rs.Version)
}

func TestInMemoryGetUnknown(t *testing.T) {
	reg := NewInMemory()

	rs, err := reg.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rs)
}

func TestInMemoryRegisterReplaces(t *testing.T) {
	reg := NewInMemory()
	reg.Register(&types.Ruleset{ID: "items-tree", Version: "1.0.0"})
	reg.Register(&types.Ruleset{ID: "items-tree", Version: "2.0.0"})

	rs, err := reg.Get(context.Background(), "items-tree")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", rs.Version)
	assert.Len(t, reg.List(), 1)
}

func TestInMemoryUnregister(t *testing.T) {
	reg := NewInMemory()
	reg.Register(&types.Ruleset{ID: "items-tree"})

	reg.Unregister("items-tree")
	rs, err := reg.Get(context.Background(), "items-tree")
	require.NoError(t, err)
	assert.Nil(t, rs)

	// unknown id is a no-op
	reg.Unregister("missing")
}

func TestAsRegistry(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.PutRuleset(&types.Ruleset{ID: "items-tree"}))

	reg := AsRegistry(store)
	rs, err := reg.Get(context.Background(), "items-tree")
	require.NoError(t, err)
	require.NotNil(t, rs)
	assert.Equal(t, "items-tree", rs.ID)

	rs, err = reg.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rs)
}
