package transport

import (
	"context"

	"github.com/treelinehq/treeline/pkg/types"
)

// Transport is the request/response capability of the presentation service.
// Every method accepts the canonical options built by the manager and returns
// either a plain value, a paged result, or nothing. Implementations report
// failures as gRPC status errors so callers can branch on the code.
type Transport interface {
	// Hierarchy
	GetNodesCount(ctx context.Context, req *RequestOptions) (int, error)
	GetPagedNodes(ctx context.Context, req *RequestOptions) (*types.PagedResult[types.Node], error)
	GetFilteredNodePaths(ctx context.Context, req *RequestOptions) ([]types.NodePathElement, error)
	GetNodePaths(ctx context.Context, req *RequestOptions) ([]types.NodePathElement, error)
	LoadHierarchy(ctx context.Context, req *RequestOptions) error

	// Content
	GetContentDescriptor(ctx context.Context, req *RequestOptions) (*types.Descriptor, error)
	GetContentSetSize(ctx context.Context, req *RequestOptions) (int, error)
	GetPagedContentSet(ctx context.Context, req *RequestOptions) (*types.PagedResult[types.ContentItem], error)
	GetPagedContent(ctx context.Context, req *RequestOptions) (*ContentPage, error)
	GetPagedDistinctValues(ctx context.Context, req *RequestOptions) (*types.PagedResult[types.DisplayValueGroup], error)

	// Labels
	GetDisplayLabelDefinition(ctx context.Context, req *RequestOptions) (*types.LabelDefinition, error)
	GetPagedDisplayLabelDefinitions(ctx context.Context, req *RequestOptions) (*types.PagedResult[types.LabelDefinition], error)

	// Comparison
	CompareHierarchies(ctx context.Context, req *RequestOptions) ([]types.HierarchyChange, error)
}
