package router

import (
	"context"
	"sort"
	"sync"

	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/metrics"
	"github.com/treelinehq/treeline/pkg/registry"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

// HierarchyChangedEvent notifies that a ruleset's hierarchy changed.
// UpdateInfo is the literal update descriptor from the notification: either
// the full-invalidation marker or the ordered partial changes.
type HierarchyChangedEvent struct {
	Ruleset    *types.Ruleset
	UpdateInfo types.UpdateValue
}

// ContentChangedEvent notifies that a ruleset's content changed
type ContentChangedEvent struct {
	Ruleset    *types.Ruleset
	UpdateInfo types.UpdateValue
}

// UpdateRouter demultiplexes push-channel update notifications into typed
// hierarchy/content change events. It registers exactly one handler with the
// push channel and unregisters the same handler on disposal.
type UpdateRouter struct {
	channel  transport.PushChannel
	registry registry.Registry

	hierarchy *Listeners[HierarchyChangedEvent]
	content   *Listeners[ContentChangedEvent]

	mu         sync.Mutex
	subscribed bool
}

// NewUpdateRouter creates a router over the given push channel and registry.
// A nil channel means the environment has no push delivery; the router then
// never subscribes and never emits.
func NewUpdateRouter(channel transport.PushChannel, reg registry.Registry) *UpdateRouter {
	return &UpdateRouter{
		channel:   channel,
		registry:  reg,
		hierarchy: NewListeners[HierarchyChangedEvent](),
		content:   NewListeners[ContentChangedEvent](),
	}
}

// Start subscribes to the push channel. Subscribing twice is a no-op.
func (r *UpdateRouter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.subscribed || r.channel == nil {
		return
	}
	r.channel.On(transport.SourceID, transport.EventUpdate, r)
	r.subscribed = true
	logger := log.WithComponent("router")
	logger.Debug().Msg("subscribed to push channel")
}

// Stop unsubscribes the handler registered by Start. Terminal: the router is
// not restarted after disposal.
func (r *UpdateRouter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.subscribed {
		return
	}
	r.channel.Off(transport.SourceID, transport.EventUpdate, r)
	r.subscribed = false
	logger := log.WithComponent("router")
	logger.Debug().Msg("unsubscribed from push channel")
}

// OnHierarchyChanged registers a hierarchy-change listener
func (r *UpdateRouter) OnHierarchyChanged(fn func(HierarchyChangedEvent)) (remove func()) {
	return r.hierarchy.Add(fn)
}

// OnContentChanged registers a content-change listener
func (r *UpdateRouter) OnContentChanged(fn func(ContentChangedEvent)) (remove func()) {
	return r.content.Add(fn)
}

// OnUpdate implements transport.UpdateHandler. Ruleset ids are processed in
// sorted order so emission is deterministic; entries whose ruleset cannot be
// resolved are dropped silently.
func (r *UpdateRouter) OnUpdate(info types.UpdateInfo) {
	logger := log.WithComponent("router")

	ids := make([]string, 0, len(info))
	for id := range info {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		record := info[id]
		if record.Hierarchy == nil && record.Content == nil {
			continue
		}

		ruleset, err := r.registry.Get(context.Background(), id)
		if err != nil {
			logger.Error().Err(err).Str("ruleset_id", id).Msg("ruleset resolution failed")
			continue
		}
		if ruleset == nil {
			metrics.UpdatesDroppedTotal.Inc()
			logger.Debug().Str("ruleset_id", id).Msg("dropping update for unknown ruleset")
			continue
		}

		if record.Hierarchy != nil {
			metrics.UpdateEventsTotal.WithLabelValues("hierarchy").Inc()
			r.hierarchy.Emit(HierarchyChangedEvent{Ruleset: ruleset, UpdateInfo: *record.Hierarchy})
		}
		if record.Content != nil {
			metrics.UpdateEventsTotal.WithLabelValues("content").Inc()
			r.content.Emit(ContentChangedEvent{Ruleset: ruleset, UpdateInfo: *record.Content})
		}
	}
}
