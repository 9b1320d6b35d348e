package paging

import (
	"context"
	"fmt"

	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/metrics"
	"github.com/treelinehq/treeline/pkg/types"
)

// WindowGetter fetches a single window of a larger ordered collection. The
// server may return fewer items than requested.
type WindowGetter[T any] func(ctx context.Context, window types.PagingWindow) (*types.PagedResult[T], error)

// Assemble reconstructs the complete result for the requested window,
// issuing as many sequential getter calls as needed. A nil window means
// "everything from 0". The first call always uses the caller's exact window,
// including a zero size; Total is taken from that first response and treated
// as stable for the rest of the sequence.
//
// Accumulation stops when a bounded request has gathered the requested size,
// when an unbounded request has reached the total, or when the getter stops
// making progress (an empty window).
func Assemble[T any](ctx context.Context, window *types.PagingWindow, getter WindowGetter[T]) (*types.PagedResult[T], error) {
	start, size := 0, 0
	if window != nil {
		start, size = window.Start, window.Size
	}

	timer := metrics.NewTimer()

	first, err := getter(ctx, types.PagingWindow{Start: start, Size: size})
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, fmt.Errorf("window getter returned no response for start=%d size=%d", start, size)
	}

	total := first.Total
	items := first.Items
	received := len(first.Items)
	calls := 1

	for {
		if size > 0 && len(items) >= size {
			break
		}
		if size == 0 && start+len(items) >= total {
			break
		}
		if received == 0 {
			// A window that makes no progress means the server cannot
			// produce more items; stop rather than loop forever.
			break
		}

		next := types.PagingWindow{Start: start + len(items)}
		if size > 0 {
			next.Size = size - len(items)
		}

		resp, err := getter(ctx, next)
		if err != nil {
			return nil, err
		}
		calls++
		if resp == nil {
			received = 0
			continue
		}
		received = len(resp.Items)
		items = append(items, resp.Items...)
	}

	metrics.PageRoundTrips.Observe(float64(calls))
	timer.ObserveDuration(metrics.PageAssemblyDuration)
	if calls > 1 {
		logger := log.WithComponent("paging")
		logger.Debug().
			Int("start", start).
			Int("size", size).
			Int("total", total).
			Int("round_trips", calls).
			Msg("assembled page from partial windows")
	}

	return &types.PagedResult[T]{Total: total, Items: items}, nil
}
