package compare

import (
	"context"
	"reflect"

	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

// Comparator computes hierarchy differences between a previous and the
// current presentation state.
type Comparator struct {
	transport transport.Transport
}

// NewComparator creates a comparator over the given transport
func NewComparator(t transport.Transport) *Comparator {
	return &Comparator{transport: t}
}

// Compare returns the hierarchy change entries between the request's
// previous state and its current state.
//
// When the two states are equivalent the transport is not called and the
// result is empty. A transport cancellation is also surfaced as an empty
// result; every other transport failure propagates unchanged.
func (c *Comparator) Compare(ctx context.Context, req *transport.RequestOptions) ([]types.HierarchyChange, error) {
	if unchanged(req) {
		return nil, nil
	}

	changes, err := c.transport.CompareHierarchies(ctx, req)
	if err != nil {
		if transport.IsCanceled(err) {
			logger := log.WithComponent("compare")
			logger.Debug().
				Str("ruleset_id", req.Ruleset.ResolvedID()).
				Msg("comparison canceled by server, returning empty result")
			return nil, nil
		}
		return nil, err
	}
	return changes, nil
}

// unchanged reports whether the previous and current state descriptors are
// equivalent: same ruleset reference/id and same effective variable set. An
// absent previous descriptor counts as unchanged only when the current side
// carries no distinguishing fields either.
func unchanged(req *transport.RequestOptions) bool {
	currentID := req.Ruleset.ResolvedID()

	if req.Prev.Empty() {
		return req.Ruleset.Ruleset == nil && currentID == "" && len(req.RulesetVariables) == 0
	}

	prevID := ""
	if req.Prev.Ruleset != nil {
		prevID = req.Prev.Ruleset.ResolvedID()
	}
	if prevID != currentID {
		return false
	}
	return variablesEqual(req.Prev.RulesetVariables, req.RulesetVariables)
}

// variablesEqual compares two variable sequences by their effective values:
// last value for a given id wins, order is irrelevant.
func variablesEqual(a, b []types.RulesetVariable) bool {
	return reflect.DeepEqual(effective(a), effective(b))
}

func effective(vars []types.RulesetVariable) map[string]types.RulesetVariable {
	m := make(map[string]types.RulesetVariable, len(vars))
	for _, v := range vars {
		m[v.ID] = v
	}
	return m
}
