package wsrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/treelinehq/treeline/pkg/metrics"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

// Wire operation names, shared with the service
const (
	opGetNodesCount                   = "getNodesCount"
	opGetPagedNodes                   = "getPagedNodes"
	opGetFilteredNodePaths            = "getFilteredNodePaths"
	opGetNodePaths                    = "getNodePaths"
	opLoadHierarchy                   = "loadHierarchy"
	opGetContentDescriptor            = "getContentDescriptor"
	opGetContentSetSize               = "getContentSetSize"
	opGetPagedContentSet              = "getPagedContentSet"
	opGetPagedContent                 = "getPagedContent"
	opGetPagedDistinctValues          = "getPagedDistinctValues"
	opGetDisplayLabelDefinition       = "getDisplayLabelDefinition"
	opGetPagedDisplayLabelDefinitions = "getPagedDisplayLabelDefinitions"
	opCompareHierarchies              = "compareHierarchies"
)

var nullResult = []byte("null")

// call performs one RPC and decodes its result. A null or absent result
// decodes to the zero value.
func call[T any](ctx context.Context, c *Client, operation string, opts *transport.RequestOptions) (T, error) {
	var zero T

	timer := metrics.NewTimer()
	raw, err := c.roundTrip(ctx, operation, opts)
	timer.ObserveDurationVec(metrics.RPCCallDuration, operation)
	if err != nil {
		metrics.RPCCallsTotal.WithLabelValues(operation, "error").Inc()
		return zero, err
	}
	metrics.RPCCallsTotal.WithLabelValues(operation, "success").Inc()

	if len(raw) == 0 || bytes.Equal(raw, nullResult) {
		return zero, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decoding %s result: %w", operation, err)
	}
	return out, nil
}

func (c *Client) GetNodesCount(ctx context.Context, opts *transport.RequestOptions) (int, error) {
	return call[int](ctx, c, opGetNodesCount, opts)
}

func (c *Client) GetPagedNodes(ctx context.Context, opts *transport.RequestOptions) (*types.PagedResult[types.Node], error) {
	return call[*types.PagedResult[types.Node]](ctx, c, opGetPagedNodes, opts)
}

func (c *Client) GetFilteredNodePaths(ctx context.Context, opts *transport.RequestOptions) ([]types.NodePathElement, error) {
	return call[[]types.NodePathElement](ctx, c, opGetFilteredNodePaths, opts)
}

func (c *Client) GetNodePaths(ctx context.Context, opts *transport.RequestOptions) ([]types.NodePathElement, error) {
	return call[[]types.NodePathElement](ctx, c, opGetNodePaths, opts)
}

func (c *Client) LoadHierarchy(ctx context.Context, opts *transport.RequestOptions) error {
	_, err := call[json.RawMessage](ctx, c, opLoadHierarchy, opts)
	return err
}

func (c *Client) GetContentDescriptor(ctx context.Context, opts *transport.RequestOptions) (*types.Descriptor, error) {
	return call[*types.Descriptor](ctx, c, opGetContentDescriptor, opts)
}

func (c *Client) GetContentSetSize(ctx context.Context, opts *transport.RequestOptions) (int, error) {
	return call[int](ctx, c, opGetContentSetSize, opts)
}

func (c *Client) GetPagedContentSet(ctx context.Context, opts *transport.RequestOptions) (*types.PagedResult[types.ContentItem], error) {
	return call[*types.PagedResult[types.ContentItem]](ctx, c, opGetPagedContentSet, opts)
}

func (c *Client) GetPagedContent(ctx context.Context, opts *transport.RequestOptions) (*transport.ContentPage, error) {
	return call[*transport.ContentPage](ctx, c, opGetPagedContent, opts)
}

func (c *Client) GetPagedDistinctValues(ctx context.Context, opts *transport.RequestOptions) (*types.PagedResult[types.DisplayValueGroup], error) {
	return call[*types.PagedResult[types.DisplayValueGroup]](ctx, c, opGetPagedDistinctValues, opts)
}

func (c *Client) GetDisplayLabelDefinition(ctx context.Context, opts *transport.RequestOptions) (*types.LabelDefinition, error) {
	return call[*types.LabelDefinition](ctx, c, opGetDisplayLabelDefinition, opts)
}

func (c *Client) GetPagedDisplayLabelDefinitions(ctx context.Context, opts *transport.RequestOptions) (*types.PagedResult[types.LabelDefinition], error) {
	return call[*types.PagedResult[types.LabelDefinition]](ctx, c, opGetPagedDisplayLabelDefinitions, opts)
}

func (c *Client) CompareHierarchies(ctx context.Context, opts *transport.RequestOptions) ([]types.HierarchyChange, error) {
	return call[[]types.HierarchyChange](ctx, c, opCompareHierarchies, opts)
}
