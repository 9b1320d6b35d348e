package wsrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

// testServer answers request frames through a scripted handler and can
// push notification frames at will.
type testServer struct {
	*httptest.Server
	handle func(f *frame) *frame

	mu   sync.Mutex
	conn *websocket.Conn
}

func newTestServer(t *testing.T, handle func(f *frame) *frame) *testServer {
	t.Helper()
	ts := &testServer{handle: handle}
	upgrader := websocket.Upgrader{}

	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		ts.mu.Lock()
		ts.conn = conn
		ts.mu.Unlock()

		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			if resp := ts.handle(&f); resp != nil {
				ts.mu.Lock()
				err := conn.WriteJSON(resp)
				ts.mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) push(t *testing.T, f *frame) {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotNil(t, ts.conn)
	require.NoError(t, ts.conn.WriteJSON(f))
}

func (ts *testServer) url() string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http")
}

func dialTest(t *testing.T, ts *testServer) *Client {
	t.Helper()
	c, err := Dial(context.Background(), ts.url(), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func result(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

type recordingHandler struct {
	mu    sync.Mutex
	infos []types.UpdateInfo
}

func (h *recordingHandler) OnUpdate(info types.UpdateInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.infos = append(h.infos, info)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.infos)
}

func TestRoundTrip(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		assert.Equal(t, opGetNodesCount, f.Operation)

		var opts transport.RequestOptions
		require.NoError(t, json.Unmarshal(f.Params, &opts))
		assert.Equal(t, "conn-token", opts.Token)
		assert.Equal(t, "items-tree", opts.Ruleset.ResolvedID())

		return &frame{ID: f.ID, Result: result(t, 42)}
	})
	c := dialTest(t, ts)

	count, err := c.GetNodesCount(context.Background(), &transport.RequestOptions{
		Token:   "conn-token",
		Ruleset: transport.RulesetByID("items-tree"),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestWireErrorMapsToStatus(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		return &frame{ID: f.ID, Error: &wireError{
			Code:    int(codes.Canceled),
			Message: "comparison interrupted",
		}}
	})
	c := dialTest(t, ts)

	_, err := c.CompareHierarchies(context.Background(), &transport.RequestOptions{})
	require.Error(t, err)
	assert.Equal(t, codes.Canceled, status.Code(err))
	assert.True(t, transport.IsCanceled(err))
}

func TestNullResultDecodesToZero(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		return &frame{ID: f.ID, Result: json.RawMessage("null")}
	})
	c := dialTest(t, ts)

	desc, err := c.GetContentDescriptor(context.Background(), &transport.RequestOptions{})
	require.NoError(t, err)
	assert.Nil(t, desc)
}

func TestPagedResultRoundTrip(t *testing.T) {
	page := types.PagedResult[types.Node]{
		Total: 2,
		Items: []types.Node{
			{Key: types.NodeKey{Type: "instance", PathFromRoot: []string{"a"}}},
			{Key: types.NodeKey{Type: "instance", PathFromRoot: []string{"b"}}},
		},
	}
	ts := newTestServer(t, func(f *frame) *frame {
		return &frame{ID: f.ID, Result: result(t, page)}
	})
	c := dialTest(t, ts)

	got, err := c.GetPagedNodes(context.Background(), &transport.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, &page, got)
}

func TestConcurrentCallsCorrelate(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		var opts transport.RequestOptions
		if err := json.Unmarshal(f.Params, &opts); err != nil {
			return &frame{ID: f.ID, Error: &wireError{Code: int(codes.InvalidArgument), Message: err.Error()}}
		}
		// answer with a value derived from the request so swapped
		// responses would be detected
		return &frame{ID: f.ID, Result: result(t, len(opts.Token))}
	})
	c := dialTest(t, ts)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := strings.Repeat("x", n)
			count, err := c.GetNodesCount(context.Background(), &transport.RequestOptions{Token: token})
			assert.NoError(t, err)
			assert.Equal(t, n, count)
		}(i)
	}
	wg.Wait()
}

func TestContextCancellation(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		return nil // never answer
	})
	c := dialTest(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetNodesCount(ctx, &transport.RequestOptions{})
	require.Error(t, err)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestUpdateNotificationDispatch(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		return &frame{ID: f.ID, Result: result(t, 0)}
	})
	c := dialTest(t, ts)

	matched := &recordingHandler{}
	other := &recordingHandler{}
	c.On(transport.SourceID, transport.EventUpdate, matched)
	c.On("other-source", transport.EventUpdate, other)

	// establish the connection on the server side before pushing
	_, err := c.GetNodesCount(context.Background(), &transport.RequestOptions{})
	require.NoError(t, err)

	info := types.UpdateInfo{
		"items-tree": {Hierarchy: &types.FullUpdate},
	}
	ts.push(t, &frame{
		Source: transport.SourceID,
		Event:  transport.EventUpdate,
		Params: result(t, info),
	})

	require.Eventually(t, func() bool { return matched.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, other.count())

	matched.mu.Lock()
	defer matched.mu.Unlock()
	record := matched.infos[0]["items-tree"]
	require.NotNil(t, record.Hierarchy)
	assert.True(t, record.Hierarchy.Full)
}

func TestOffStopsDispatch(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		return &frame{ID: f.ID, Result: result(t, 0)}
	})
	c := dialTest(t, ts)

	removed := &recordingHandler{}
	kept := &recordingHandler{}
	c.On(transport.SourceID, transport.EventUpdate, removed)
	c.On(transport.SourceID, transport.EventUpdate, kept)
	c.Off(transport.SourceID, transport.EventUpdate, removed)

	_, err := c.GetNodesCount(context.Background(), &transport.RequestOptions{})
	require.NoError(t, err)

	ts.push(t, &frame{
		Source: transport.SourceID,
		Event:  transport.EventUpdate,
		Params: result(t, types.UpdateInfo{"r": {Content: &types.FullUpdate}}),
	})

	require.Eventually(t, func() bool { return kept.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, removed.count())
}

func TestCallsAfterCloseFail(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		return &frame{ID: f.ID, Result: result(t, 0)}
	})
	c := dialTest(t, ts)
	require.NoError(t, c.Close())

	_, err := c.GetNodesCount(context.Background(), &transport.RequestOptions{})
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestServerDisconnectFailsPendingCalls(t *testing.T) {
	ts := newTestServer(t, func(f *frame) *frame {
		return nil // hold the call open
	})
	c := dialTest(t, ts)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.GetNodesCount(context.Background(), &transport.RequestOptions{})
		errCh <- err
	}()

	// wait for the request to arrive, then drop the connection
	require.Eventually(t, func() bool {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		return ts.conn != nil
	}, 5*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	ts.mu.Lock()
	ts.conn.Close()
	ts.mu.Unlock()

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.Equal(t, codes.Unavailable, status.Code(err))
	case <-time.After(5 * time.Second):
		t.Fatal("pending call did not fail after disconnect")
	}
}
