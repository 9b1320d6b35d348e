package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treelinehq/treeline/pkg/types"
)

func TestOverlayGetEmpty(t *testing.T) {
	o := NewOverlay()

	vars := o.Get("items-tree")
	assert.NotNil(t, vars)
	assert.Empty(t, vars)
}

func TestOverlaySetAndGet(t *testing.T) {
	o := NewOverlay()

	o.Set("items-tree", "show-hidden", types.VariableTypeBool, true)
	o.Set("items-tree", "category", types.VariableTypeString, "pipes")

	vars := o.Get("items-tree")
	assert.Equal(t, []types.RulesetVariable{
		{ID: "show-hidden", Type: types.VariableTypeBool, Value: true},
		{ID: "category", Type: types.VariableTypeString, Value: "pipes"},
	}, vars)
}

// TestOverlayOverwriteKeepsPosition verifies last-write-wins in place: an
// overwritten variable keeps its original position, value updated.
func TestOverlayOverwriteKeepsPosition(t *testing.T) {
	o := NewOverlay()

	o.Set("items-tree", "a", types.VariableTypeInt, 1)
	o.Set("items-tree", "b", types.VariableTypeInt, 2)
	o.Set("items-tree", "c", types.VariableTypeInt, 3)

	o.Set("items-tree", "a", types.VariableTypeInt, 42)

	vars := o.Get("items-tree")
	assert.Equal(t, []types.RulesetVariable{
		{ID: "a", Type: types.VariableTypeInt, Value: 42},
		{ID: "b", Type: types.VariableTypeInt, Value: 2},
		{ID: "c", Type: types.VariableTypeInt, Value: 3},
	}, vars)
}

func TestOverlayScopedPerRuleset(t *testing.T) {
	o := NewOverlay()

	o.Set("tree-a", "v", types.VariableTypeString, "for-a")
	o.Set("tree-b", "v", types.VariableTypeString, "for-b")

	assert.Equal(t, "for-a", o.Get("tree-a")[0].Value)
	assert.Equal(t, "for-b", o.Get("tree-b")[0].Value)
	assert.Empty(t, o.Get("tree-c"))
}

func TestOverlayGetReturnsCopy(t *testing.T) {
	o := NewOverlay()
	o.Set("items-tree", "a", types.VariableTypeInt, 1)

	vars := o.Get("items-tree")
	vars[0].Value = 99

	assert.Equal(t, 1, o.Get("items-tree")[0].Value)
}

func TestOverlayUnset(t *testing.T) {
	o := NewOverlay()
	o.Set("items-tree", "a", types.VariableTypeInt, 1)
	o.Set("items-tree", "b", types.VariableTypeInt, 2)

	o.Unset("items-tree", "a")
	assert.Equal(t, []types.RulesetVariable{
		{ID: "b", Type: types.VariableTypeInt, Value: 2},
	}, o.Get("items-tree"))

	// unknown id is a no-op
	o.Unset("items-tree", "missing")
	assert.Len(t, o.Get("items-tree"), 1)
}

func TestOverlayClear(t *testing.T) {
	o := NewOverlay()
	o.Set("items-tree", "a", types.VariableTypeInt, 1)

	o.Clear("items-tree")
	assert.Empty(t, o.Get("items-tree"))
}
