/*
Package paging reassembles complete result pages from a server that only ever
returns bounded windows.

The presentation service may cap the number of items returned per call below
the requested size (payload limits). Assemble transparently stitches as many
sequential windows as needed into one logical page; callers never observe how
many round trips occurred.

# Algorithm

Given a requested window {start, size} (nil window = unbounded from 0):

 1. Issue the first call with the caller's exact window, even when size is 0.
    The total of that response is authoritative for the whole sequence.
 2. Accumulate items. Stop when a bounded request reaches the requested size,
    when an unbounded request reaches the total, or when a call returns no
    items (server cannot make progress).
 3. Otherwise issue the next call at start' = start + items received so far,
    with size' = remaining size (bounded) or 0 (unbounded).

Calls are strictly sequential: each start depends on the exact count the
previous call returned, so no speculative parallel fetching is possible.

# Usage

	result, err := paging.Assemble(ctx, &types.PagingWindow{Start: 1, Size: 3},
		func(ctx context.Context, w types.PagingWindow) (*types.PagedResult[types.Node], error) {
			return tr.GetPagedNodes(ctx, req.WithPaging(w))
		})

Round-trip counts and assembly latency are reported through pkg/metrics.
*/
package paging
