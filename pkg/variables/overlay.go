package variables

import (
	"sync"

	"github.com/treelinehq/treeline/pkg/metrics"
	"github.com/treelinehq/treeline/pkg/types"
)

// Overlay caches named, typed ruleset variables per ruleset id. The manager
// merges the cached variables into every outgoing request for the matching
// ruleset.
//
// Storage is last-write-wins keyed by variable id: overwriting a variable
// updates its value in place, keeping its original position in the sequence.
type Overlay struct {
	mu   sync.RWMutex
	vars map[string][]types.RulesetVariable
}

// NewOverlay creates an empty overlay
func NewOverlay() *Overlay {
	return &Overlay{
		vars: make(map[string][]types.RulesetVariable),
	}
}

// Set stores a variable for the given ruleset. An existing variable with the
// same id has its type and value replaced in place.
func (o *Overlay) Set(rulesetID, id string, typ types.VariableType, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry := types.RulesetVariable{ID: id, Type: typ, Value: value}
	list := o.vars[rulesetID]
	for i := range list {
		if list[i].ID == id {
			list[i] = entry
			return
		}
	}
	o.vars[rulesetID] = append(list, entry)
	metrics.RulesetVariablesTotal.WithLabelValues(rulesetID).Set(float64(len(o.vars[rulesetID])))
}

// Get returns the variables cached for the given ruleset, in the order they
// were first set. The returned slice is a copy; it is never nil.
func (o *Overlay) Get(rulesetID string) []types.RulesetVariable {
	o.mu.RLock()
	defer o.mu.RUnlock()

	list := o.vars[rulesetID]
	out := make([]types.RulesetVariable, len(list))
	copy(out, list)
	return out
}

// Unset removes a variable from the given ruleset. Removing a variable that
// was never set is a no-op.
func (o *Overlay) Unset(rulesetID, id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	list := o.vars[rulesetID]
	for i := range list {
		if list[i].ID == id {
			o.vars[rulesetID] = append(list[:i], list[i+1:]...)
			metrics.RulesetVariablesTotal.WithLabelValues(rulesetID).Set(float64(len(o.vars[rulesetID])))
			return
		}
	}
}

// Clear drops all variables cached for the given ruleset
func (o *Overlay) Clear(rulesetID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.vars, rulesetID)
	metrics.RulesetVariablesTotal.WithLabelValues(rulesetID).Set(0)
}
