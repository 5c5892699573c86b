// Package client implements the external automation client side of the
// bridge: it dials the relay's client leg, sends commands with
// caller-assigned correlation ids, and matches responses back to their
// in-flight calls. Delivery is at-most-once per attempt; a call that
// outlives its timeout is abandoned.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/logging"
	"github.com/inklab/canvasbridge/internal/protocol"
)

// DefaultCallTimeout bounds how long a call waits for its response.
const DefaultCallTimeout = 5 * time.Second

// Client is a connected automation client. Safe for concurrent calls.
type Client struct {
	conn    *websocket.Conn
	log     *logging.Logger
	timeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan protocol.Response
	seq     int
	closed  bool
}

// Option adjusts client construction.
type Option func(*Client)

// WithCallTimeout overrides the per-call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Dial connects to the relay's client leg.
func Dial(ctx context.Context, url string, log *logging.Logger, opts ...Option) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}

	c := &Client{
		conn:    conn,
		log:     log,
		timeout: DefaultCallTimeout,
		pending: make(map[string]chan protocol.Response),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.readLoop()
	return c, nil
}

// Call sends a command and waits for its correlated response. An error
// response resolves the call with its message as the returned error. params
// may be nil; otherwise it must marshal to a JSON object.
func (c *Client) Call(ctx context.Context, method string, params any) (any, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("client is closed")
	}
	c.seq++
	id := fmt.Sprintf("%s-%d", method, c.seq)
	ch := make(chan protocol.Response, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	payload, err := protocol.EncodeCommand(id, method, params)
	if err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, payload)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.IsError() {
			return nil, fmt.Errorf("%s", resp.Err.Message)
		}
		return resp.Result, nil
	case <-timer.C:
		return nil, fmt.Errorf("command %s timed out", method)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// readLoop delivers responses to their pending calls. Responses with no
// pending call (late arrivals after a timeout) and malformed payloads are
// logged and dropped.
func (c *Client) readLoop() {
	defer c.abort()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Info("client socket closed", zap.Error(err))
			return
		}
		resp, err := protocol.DecodeResponse(data)
		if err != nil {
			c.log.Warn("dropping malformed response", zap.Error(err))
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		c.mu.Unlock()
		if !ok {
			c.log.Warn("dropping unmatched response", zap.String("id", resp.ID))
			continue
		}
		ch <- resp
	}
}

// abort fails every in-flight call when the socket drops.
func (c *Client) abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		select {
		case ch <- protocol.NewError(id, "connection closed"):
		default:
		}
	}
}

// Close tears down the connection; in-flight calls fail.
func (c *Client) Close() error {
	return c.conn.Close()
}
