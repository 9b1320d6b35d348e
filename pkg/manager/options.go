package manager

import (
	"fmt"

	"github.com/treelinehq/treeline/pkg/connection"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

// Request carries the fields common to every manager operation. Exactly one
// connection is required; the ruleset reference may be empty ("no ruleset").
type Request struct {
	Connection connection.Connection

	// Ruleset references the ruleset either by resolved object or by id;
	// the zero value means none.
	Ruleset transport.RulesetRef

	// RulesetVariables are request-scoped variables. They take positional
	// precedence over the manager's cached overlay values: the builder
	// places them first and appends overlay values after.
	RulesetVariables []types.RulesetVariable

	// Locale and UnitSystem override the manager's active values when set.
	Locale     string
	UnitSystem types.UnitSystem
}

// NodesRequest queries hierarchy levels. A nil ParentKey addresses root
// nodes.
type NodesRequest struct {
	Request
	ParentKey *types.NodeKey
	Paging    *types.PagingWindow
}

// FilteredPathsRequest queries node paths matching a filter string
type FilteredPathsRequest struct {
	Request
	FilterText string
}

// PathsRequest queries node paths leading to the given instance key paths
type PathsRequest struct {
	Request
	Paths       [][]types.InstanceKey
	MarkedIndex int
}

// ContentRequest queries content for a set of instance keys
type ContentRequest struct {
	Request
	DisplayType string
	Keys        []types.InstanceKey
	Descriptor  *types.Descriptor
	Paging      *types.PagingWindow
}

// DistinctValuesRequest queries the distinct values of one content field
type DistinctValuesRequest struct {
	ContentRequest
	FieldName string
}

// LabelRequest queries the display label of a single instance
type LabelRequest struct {
	Request
	Key types.InstanceKey
}

// LabelsRequest queries display labels for several instances
type LabelsRequest struct {
	Request
	Keys   []types.InstanceKey
	Paging *types.PagingWindow
}

// CompareRequest compares the current hierarchy state against a previous one
type CompareRequest struct {
	Request
	Prev             *transport.PrevState
	ExpandedNodeKeys []types.NodeKey
}

// buildOptions normalizes a request into the canonical transport shape and
// runs the per-connection first-use gate. Every operation entry point goes
// through here.
//
// The canonical request always carries a non-nil rulesetVariables sequence:
// request-supplied variables first, the overlay's cached variables for the
// resolved ruleset id appended after. Duplicates by id are kept; the
// consuming end resolves last-value-wins.
func (m *Manager) buildOptions(req *Request) (*transport.RequestOptions, error) {
	if req.Connection == nil {
		return nil, fmt.Errorf("request carries no connection")
	}

	m.mu.RLock()
	if m.disposed {
		m.mu.RUnlock()
		return nil, fmt.Errorf("manager is disposed")
	}
	locale := m.locale
	unitSystem := m.unitSystem
	m.mu.RUnlock()

	m.tracker.EnsureInitialized(req.Connection, m.initializeConnection)

	if req.Locale != "" {
		locale = req.Locale
	}
	if req.UnitSystem != "" {
		unitSystem = req.UnitSystem
	}

	rulesetID := req.Ruleset.ResolvedID()
	vars := make([]types.RulesetVariable, 0, len(req.RulesetVariables))
	vars = append(vars, req.RulesetVariables...)
	vars = append(vars, m.overlay.Get(rulesetID)...)

	return &transport.RequestOptions{
		Token:            req.Connection.Token(),
		Locale:           locale,
		UnitSystem:       unitSystem,
		Ruleset:          req.Ruleset,
		RulesetVariables: vars,
	}, nil
}
