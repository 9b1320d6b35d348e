package registry

import (
	"context"
	"sync"

	"github.com/treelinehq/treeline/pkg/metrics"
	"github.com/treelinehq/treeline/pkg/types"
)

// Registry resolves rulesets by id. Get returns (nil, nil) for an unknown
// id; resolution failures are reserved for actual lookup errors.
type Registry interface {
	Get(ctx context.Context, id string) (*types.Ruleset, error)
}

// InMemory is a process-local ruleset registry
type InMemory struct {
	mu       sync.RWMutex
	rulesets map[string]*types.Ruleset
}

// NewInMemory creates an empty registry
func NewInMemory() *InMemory {
	return &InMemory{
		rulesets: make(map[string]*types.Ruleset),
	}
}

// Register adds or replaces a ruleset
func (r *InMemory) Register(ruleset *types.Ruleset) {
	r.mu.Lock()
	r.rulesets[ruleset.ID] = ruleset
	count := len(r.rulesets)
	r.mu.Unlock()

	metrics.RulesetsRegistered.Set(float64(count))
}

// Unregister removes a ruleset; removing an unknown id is a no-op
func (r *InMemory) Unregister(id string) {
	r.mu.Lock()
	delete(r.rulesets, id)
	count := len(r.rulesets)
	r.mu.Unlock()

	metrics.RulesetsRegistered.Set(float64(count))
}

// Get resolves a ruleset by id, nil when unknown
func (r *InMemory) Get(ctx context.Context, id string) (*types.Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rulesets[id], nil
}

// List returns all registered rulesets
func (r *InMemory) List() []*types.Ruleset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.Ruleset, 0, len(r.rulesets))
	for _, rs := range r.rulesets {
		out = append(out, rs)
	}
	return out
}

// storeRegistry adapts a Store to the Registry interface
type storeRegistry struct {
	store Store
}

// AsRegistry exposes a persistent store as a Registry
func AsRegistry(s Store) Registry {
	return &storeRegistry{store: s}
}

func (r *storeRegistry) Get(ctx context.Context, id string) (*types.Ruleset, error) {
	return r.store.GetRuleset(id)
}
