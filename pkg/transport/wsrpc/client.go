package wsrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

// frame is the wire envelope. Requests carry id, operation and params;
// responses carry id plus result or error; server-initiated notifications
// carry source, event and params and no id.
type frame struct {
	ID        string          `json:"id,omitempty"`
	Operation string          `json:"operation,omitempty"`
	Source    string          `json:"source,omitempty"`
	Event     string          `json:"event,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *wireError      `json:"error,omitempty"`
}

// wireError carries the service's error taxonomy. Codes follow the gRPC
// status space so they translate without a mapping table.
type wireError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *wireError) toStatus() error {
	return status.Error(codes.Code(e.Code), e.Message)
}

// Options configures the websocket client
type Options struct {
	// HandshakeTimeout bounds the websocket dial. Defaults to 10s.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds each outgoing frame. Defaults to 10s.
	WriteTimeout time.Duration

	// Header is sent with the handshake request, typically authorization
	Header http.Header
}

type pushHandler struct {
	source  string
	event   string
	handler transport.UpdateHandler
}

// Client is a websocket JSON-RPC implementation of transport.Transport and
// transport.PushChannel. One goroutine reads frames off the socket and
// resolves them against pending calls by correlation id; notification
// frames fan out to registered update handlers.
type Client struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	logger       zerolog.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]chan *frame
	handlers []pushHandler
	closed   bool
	closeErr error

	done chan struct{}
}

// Dial connects to the presentation service at the given websocket URL
// and starts the read loop.
func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	if opts.HandshakeTimeout == 0 {
		opts.HandshakeTimeout = defaultHandshakeTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}

	c := &Client{
		conn:         conn,
		writeTimeout: opts.WriteTimeout,
		logger:       log.WithComponent("wsrpc"),
		pending:      make(map[string]chan *frame),
		done:         make(chan struct{}),
	}
	go c.readLoop()

	c.logger.Info().Str("url", url).Msg("connected to presentation service")
	return c, nil
}

// Close tears down the connection. Pending calls fail with Unavailable.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.closeErr = status.Error(codes.Unavailable, "connection closed")
	c.mu.Unlock()

	err := c.conn.Close()
	<-c.done
	return err
}

// On registers a handler for notification frames matching the given source
// and event kind.
func (c *Client) On(sourceID, eventKind string, handler transport.UpdateHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, pushHandler{source: sourceID, event: eventKind, handler: handler})
}

// Off removes a previously registered handler. The handler is matched by
// identity; removing an unknown handler is a no-op.
func (c *Client) Off(sourceID, eventKind string, handler transport.UpdateHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, h := range c.handlers {
		if h.source == sourceID && h.event == eventKind && h.handler == handler {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
			return
		}
	}
}

// roundTrip sends one request frame and waits for the matching response
func (c *Client) roundTrip(ctx context.Context, operation string, opts *transport.RequestOptions) (json.RawMessage, error) {
	params, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", operation, err)
	}

	id := uuid.New().String()
	ch := make(chan *frame, 1)

	c.mu.Lock()
	if c.closed {
		err := c.closeErr
		c.mu.Unlock()
		return nil, err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	req := frame{ID: id, Operation: operation, Params: params}
	if err := c.writeFrame(&req); err != nil {
		return nil, fmt.Errorf("sending %s request: %w", operation, err)
	}

	select {
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	case resp, ok := <-ch:
		if !ok {
			c.mu.Lock()
			err := c.closeErr
			c.mu.Unlock()
			return nil, err
		}
		if resp.Error != nil {
			return nil, resp.Error.toStatus()
		}
		return resp.Result, nil
	}
}

func (c *Client) writeFrame(f *frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop dispatches incoming frames until the connection dies. Frames
// with an id resolve pending calls; frames with an event fan out to update
// handlers. On exit every pending call is failed.
func (c *Client) readLoop() {
	defer close(c.done)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.logger.Warn().Err(err).Msg("discarding malformed frame")
			continue
		}

		switch {
		case f.ID != "":
			c.resolve(&f)
		case f.Event != "":
			c.dispatch(&f)
		default:
			c.logger.Warn().Msg("discarding frame with neither id nor event")
		}
	}
}

func (c *Client) resolve(f *frame) {
	c.mu.Lock()
	ch, ok := c.pending[f.ID]
	if ok {
		delete(c.pending, f.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Debug().Str("id", f.ID).Msg("response for unknown call")
		return
	}
	ch <- f
}

func (c *Client) dispatch(f *frame) {
	c.mu.Lock()
	handlers := make([]pushHandler, 0, len(c.handlers))
	for _, h := range c.handlers {
		if h.source == f.Source && h.event == f.Event {
			handlers = append(handlers, h)
		}
	}
	c.mu.Unlock()

	if len(handlers) == 0 {
		return
	}

	var info types.UpdateInfo
	if err := json.Unmarshal(f.Params, &info); err != nil {
		c.logger.Warn().Err(err).Msg("discarding malformed update notification")
		return
	}
	for _, h := range handlers {
		h.handler.OnUpdate(info)
	}
}

// fail closes all pending calls with a terminal error
func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		c.closeErr = status.Errorf(codes.Unavailable, "connection lost: %v", err)
		c.logger.Warn().Err(err).Msg("connection lost")
	}
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
}
