package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelinehq/treeline/pkg/types"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreRulesetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := &types.Ruleset{
		ID:      "items-tree",
		Version: "1.2.3",
		Rules:   json.RawMessage(`[{"ruleType":"RootNodes"}]`),
	}
	require.NoError(t, store.PutRuleset(in))

	out, err := store.GetRuleset("items-tree")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Version, out.Version)
	assert.JSONEq(t, string(in.Rules), string(out.Rules))
}

func TestBoltStoreGetMissingRuleset(t *testing.T) {
	store := newTestStore(t)

	out, err := store.GetRuleset("missing")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestBoltStoreListAndDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PutRuleset(&types.Ruleset{ID: "a"}))
	require.NoError(t, store.PutRuleset(&types.Ruleset{ID: "b"}))

	list, err := store.ListRulesets()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, store.DeleteRuleset("a"))
	list, err = store.ListRulesets()
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestBoltStoreVariables(t *testing.T) {
	store := newTestStore(t)

	vars := []types.RulesetVariable{
		{ID: "show-hidden", Type: types.VariableTypeBool, Value: true},
		{ID: "min-size", Type: types.VariableTypeInt, Value: float64(10)},
	}
	require.NoError(t, store.PutVariables("items-tree", vars))

	out, err := store.GetVariables("items-tree")
	require.NoError(t, err)
	assert.Equal(t, vars, out)

	out, err = store.GetVariables("other")
	require.NoError(t, err)
	assert.Nil(t, out)
}
