package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelinehq/treeline/pkg/registry"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

// fakeChannel records subscriptions and lets tests push notifications
type fakeChannel struct {
	handlers map[string][]transport.UpdateHandler
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[string][]transport.UpdateHandler)}
}

func (c *fakeChannel) key(sourceID, kind string) string { return sourceID + "/" + kind }

func (c *fakeChannel) On(sourceID, eventKind string, handler transport.UpdateHandler) {
	k := c.key(sourceID, eventKind)
	c.handlers[k] = append(c.handlers[k], handler)
}

func (c *fakeChannel) Off(sourceID, eventKind string, handler transport.UpdateHandler) {
	k := c.key(sourceID, eventKind)
	for i, h := range c.handlers[k] {
		if h == handler {
			c.handlers[k] = append(c.handlers[k][:i], c.handlers[k][i+1:]...)
			return
		}
	}
}

func (c *fakeChannel) push(info types.UpdateInfo) {
	for _, h := range c.handlers[c.key(transport.SourceID, transport.EventUpdate)] {
		h.OnUpdate(info)
	}
}

func newTestRegistry(ids ...string) *registry.InMemory {
	reg := registry.NewInMemory()
	for _, id := range ids {
		reg.Register(&types.Ruleset{ID: id})
	}
	return reg
}

func TestRouterSubscribesOnce(t *testing.T) {
	ch := newFakeChannel()
	r := NewUpdateRouter(ch, newTestRegistry())

	r.Start()
	r.Start()

	assert.Len(t, ch.handlers[ch.key(transport.SourceID, transport.EventUpdate)], 1)
}

func TestRouterUnsubscribesSameHandler(t *testing.T) {
	ch := newFakeChannel()
	r := NewUpdateRouter(ch, newTestRegistry())

	r.Start()
	r.Stop()

	assert.Empty(t, ch.handlers[ch.key(transport.SourceID, transport.EventUpdate)])
}

func TestRouterNilChannelNeverSubscribes(t *testing.T) {
	r := NewUpdateRouter(nil, newTestRegistry())

	// must not panic, and events are simply never delivered
	r.Start()
	r.Stop()
}

// TestRouterFanout covers the four-entry scenario: full hierarchy+content,
// partial hierarchy, content only, and an unresolvable id.
func TestRouterFanout(t *testing.T) {
	ch := newFakeChannel()
	reg := newTestRegistry("both", "hierarchy-only", "content-only")
	r := NewUpdateRouter(ch, reg)
	r.Start()

	var hierarchyEvents []HierarchyChangedEvent
	var contentEvents []ContentChangedEvent
	r.OnHierarchyChanged(func(e HierarchyChangedEvent) { hierarchyEvents = append(hierarchyEvents, e) })
	r.OnContentChanged(func(e ContentChangedEvent) { contentEvents = append(contentEvents, e) })

	full := types.FullUpdate

	ch.push(types.UpdateInfo{
		"both":           {Hierarchy: &full, Content: &full},
		"hierarchy-only": {Hierarchy: &types.UpdateValue{}},
		"content-only":   {Content: &full},
		"unknown":        {Hierarchy: &full, Content: &full},
	})

	require.Len(t, hierarchyEvents, 2)
	require.Len(t, contentEvents, 2)

	// sorted id order: both < content-only < hierarchy-only
	assert.Equal(t, "both", hierarchyEvents[0].Ruleset.ID)
	assert.True(t, hierarchyEvents[0].UpdateInfo.Full)
	assert.Equal(t, "hierarchy-only", hierarchyEvents[1].Ruleset.ID)
	assert.False(t, hierarchyEvents[1].UpdateInfo.Full)

	assert.Equal(t, "both", contentEvents[0].Ruleset.ID)
	assert.Equal(t, "content-only", contentEvents[1].Ruleset.ID)
}

func TestRouterIgnoresEmptyRecords(t *testing.T) {
	ch := newFakeChannel()
	r := NewUpdateRouter(ch, newTestRegistry("items-tree"))
	r.Start()

	fired := false
	r.OnHierarchyChanged(func(HierarchyChangedEvent) { fired = true })
	r.OnContentChanged(func(ContentChangedEvent) { fired = true })

	ch.push(types.UpdateInfo{"items-tree": {}})
	assert.False(t, fired)
}

func TestListenersEmitInRegistrationOrder(t *testing.T) {
	l := NewListeners[int]()

	var order []string
	l.Add(func(int) { order = append(order, "first") })
	removeSecond := l.Add(func(int) { order = append(order, "second") })
	l.Add(func(int) { order = append(order, "third") })

	l.Emit(1)
	assert.Equal(t, []string{"first", "second", "third"}, order)

	order = nil
	removeSecond()
	l.Emit(2)
	assert.Equal(t, []string{"first", "third"}, order)
	assert.Equal(t, 2, l.Len())
}

func TestRouterRegistryBacked(t *testing.T) {
	// updates resolve through whatever Registry implementation is injected
	store, err := registry.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.PutRuleset(&types.Ruleset{ID: "persisted"}))

	ch := newFakeChannel()
	r := NewUpdateRouter(ch, registry.AsRegistry(store))
	r.Start()

	var got []HierarchyChangedEvent
	r.OnHierarchyChanged(func(e HierarchyChangedEvent) { got = append(got, e) })

	full := types.FullUpdate
	ch.push(types.UpdateInfo{"persisted": {Hierarchy: &full}})

	require.Len(t, got, 1)
	assert.Equal(t, "persisted", got[0].Ruleset.ID)

	// sanity: the resolved ruleset really came from the store
	rs, err := registry.AsRegistry(store).Get(context.Background(), "persisted")
	require.NoError(t, err)
	assert.Equal(t, rs.ID, got[0].Ruleset.ID)
}
