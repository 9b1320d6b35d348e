package manager

import (
	"context"

	"github.com/treelinehq/treeline/pkg/paging"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

// GetNodesCount returns the number of nodes in a hierarchy level
func (m *Manager) GetNodesCount(ctx context.Context, req *NodesRequest) (int, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return 0, err
	}
	opts.ParentKey = req.ParentKey

	return m.transport.GetNodesCount(ctx, opts)
}

// GetNodes returns a fully assembled page of a hierarchy level. The server
// may serve the page in several windows; callers always get the complete
// requested range.
func (m *Manager) GetNodes(ctx context.Context, req *NodesRequest) (*types.PagedResult[types.Node], error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.ParentKey = req.ParentKey

	return paging.Assemble(ctx, req.Paging, func(ctx context.Context, w types.PagingWindow) (*types.PagedResult[types.Node], error) {
		return m.transport.GetPagedNodes(ctx, opts.WithPaging(w))
	})
}

// GetFilteredNodePaths returns the paths to nodes matching the filter text
func (m *Manager) GetFilteredNodePaths(ctx context.Context, req *FilteredPathsRequest) ([]types.NodePathElement, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.FilterText = req.FilterText

	return m.transport.GetFilteredNodePaths(ctx, opts)
}

// GetNodePaths returns the paths leading to the given instance key paths
func (m *Manager) GetNodePaths(ctx context.Context, req *PathsRequest) ([]types.NodePathElement, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.Paths = req.Paths
	opts.MarkedIndex = req.MarkedIndex

	return m.transport.GetNodePaths(ctx, opts)
}

// LoadHierarchy asks the backend to build the full hierarchy up front so
// later level requests are cheap. It returns no data.
func (m *Manager) LoadHierarchy(ctx context.Context, req *Request) error {
	opts, err := m.buildOptions(req)
	if err != nil {
		return err
	}

	return m.transport.LoadHierarchy(ctx, opts)
}

// GetContentDescriptor returns the descriptor for the given keys, or nil
// when the server has no content for them.
func (m *Manager) GetContentDescriptor(ctx context.Context, req *ContentRequest) (*types.Descriptor, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.DisplayType = req.DisplayType
	opts.Keys = req.Keys

	return m.transport.GetContentDescriptor(ctx, opts)
}

// GetContentSetSize returns the number of records in a content set
func (m *Manager) GetContentSetSize(ctx context.Context, req *ContentRequest) (int, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return 0, err
	}
	opts.DisplayType = req.DisplayType
	opts.Keys = req.Keys
	opts.Descriptor = req.Descriptor

	return m.transport.GetContentSetSize(ctx, opts)
}

// GetContentSet returns a fully assembled page of content records
func (m *Manager) GetContentSet(ctx context.Context, req *ContentRequest) (*types.PagedResult[types.ContentItem], error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.DisplayType = req.DisplayType
	opts.Keys = req.Keys
	opts.Descriptor = req.Descriptor

	return paging.Assemble(ctx, req.Paging, func(ctx context.Context, w types.PagingWindow) (*types.PagedResult[types.ContentItem], error) {
		return m.transport.GetPagedContentSet(ctx, opts.WithPaging(w))
	})
}

// GetContent returns descriptor and records together, fully assembled. The
// result is nil when the server has no content for the input keys.
func (m *Manager) GetContent(ctx context.Context, req *ContentRequest) (*transport.ContentPage, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.DisplayType = req.DisplayType
	opts.Keys = req.Keys
	opts.Descriptor = req.Descriptor

	var descriptor *types.Descriptor
	result, err := paging.Assemble(ctx, req.Paging, func(ctx context.Context, w types.PagingWindow) (*types.PagedResult[types.ContentItem], error) {
		page, err := m.transport.GetPagedContent(ctx, opts.WithPaging(w))
		if err != nil {
			return nil, err
		}
		if page == nil || page.Content == nil {
			return &types.PagedResult[types.ContentItem]{}, nil
		}
		if descriptor == nil {
			d := page.Content.Descriptor
			descriptor = &d
		}
		return &types.PagedResult[types.ContentItem]{Total: page.Total, Items: page.Content.ContentSet}, nil
	})
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		return nil, nil
	}

	return &transport.ContentPage{
		Total: result.Total,
		Content: &types.Content{
			Descriptor: *descriptor,
			ContentSet: result.Items,
		},
	}, nil
}

// GetDistinctValues returns a fully assembled page of a field's distinct
// values.
func (m *Manager) GetDistinctValues(ctx context.Context, req *DistinctValuesRequest) (*types.PagedResult[types.DisplayValueGroup], error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.DisplayType = req.DisplayType
	opts.Keys = req.Keys
	opts.Descriptor = req.Descriptor
	opts.FieldName = req.FieldName

	return paging.Assemble(ctx, req.Paging, func(ctx context.Context, w types.PagingWindow) (*types.PagedResult[types.DisplayValueGroup], error) {
		return m.transport.GetPagedDistinctValues(ctx, opts.WithPaging(w))
	})
}

// GetDisplayLabelDefinition returns the display label of a single instance
func (m *Manager) GetDisplayLabelDefinition(ctx context.Context, req *LabelRequest) (*types.LabelDefinition, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.Keys = []types.InstanceKey{req.Key}

	return m.transport.GetDisplayLabelDefinition(ctx, opts)
}

// GetDisplayLabelDefinitions returns fully assembled display labels for the
// given instances.
func (m *Manager) GetDisplayLabelDefinitions(ctx context.Context, req *LabelsRequest) (*types.PagedResult[types.LabelDefinition], error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.Keys = req.Keys

	return paging.Assemble(ctx, req.Paging, func(ctx context.Context, w types.PagingWindow) (*types.PagedResult[types.LabelDefinition], error) {
		return m.transport.GetPagedDisplayLabelDefinitions(ctx, opts.WithPaging(w))
	})
}

// CompareHierarchies returns the hierarchy changes between the request's
// previous state and its current state. Equivalent states short-circuit to
// an empty result; a server-side cancellation also yields an empty result.
func (m *Manager) CompareHierarchies(ctx context.Context, req *CompareRequest) ([]types.HierarchyChange, error) {
	opts, err := m.buildOptions(&req.Request)
	if err != nil {
		return nil, err
	}
	opts.Prev = req.Prev
	opts.ExpandedNodeKeys = req.ExpandedNodeKeys

	return m.comparator.Compare(ctx, opts)
}
