// Package transport is the glue inside the execution context: it owns the
// socket leg to the bridge relay, hands relayed commands to the dispatcher
// one at a time, and posts responses back out while the socket is open.
//
// Reconnection is deliberately simple: any close, clean or not, moves the
// state to CLOSED and schedules exactly one reconnect attempt after a fixed
// delay. There is no backoff, no retry cap, and no distinction between
// transient and permanent failures. There is also no outbound queue; a
// response produced while the socket is closed is dropped and logged.
package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/logging"
	"github.com/inklab/canvasbridge/internal/protocol"
)

// ReconnectDelay is the fixed pause before redialing after a close.
const ReconnectDelay = 3 * time.Second

// inboundQueueSize bounds how many relayed commands may wait while one is in
// flight. The read pump blocks when it fills, which backpressures the relay.
const inboundQueueSize = 64

// Dispatcher executes one command and always yields a response.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd protocol.Command) protocol.Response
}

// Transport connects the execution context to the relay's plugin leg.
type Transport struct {
	url        string
	dialer     *websocket.Dialer
	dispatcher Dispatcher
	log        *logging.Logger
	delay      time.Duration

	mu               sync.Mutex
	conn             *websocket.Conn
	state            protocol.ConnectionState
	reconnectPending bool

	// toRuntime is the host-messaging channel between the socket surface
	// and the embedded dispatcher loop; every message crosses it wrapped in
	// a pluginMessage envelope.
	toRuntime chan protocol.Envelope
}

// Option adjusts transport construction.
type Option func(*Transport)

// WithReconnectDelay overrides the fixed reconnect delay, for tests.
func WithReconnectDelay(d time.Duration) Option {
	return func(t *Transport) { t.delay = d }
}

// New creates a transport that will dial url and dispatch into d.
func New(url string, d Dispatcher, log *logging.Logger, opts ...Option) *Transport {
	t := &Transport{
		url:        url,
		dialer:     websocket.DefaultDialer,
		dispatcher: d,
		log:        log,
		delay:      ReconnectDelay,
		state:      protocol.StateClosed,
		toRuntime:  make(chan protocol.Envelope, inboundQueueSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins connecting and processing. It returns immediately; the
// transport runs until ctx is canceled.
func (t *Transport) Start(ctx context.Context) {
	go t.runtimeLoop(ctx)
	t.connect(ctx)
}

// State returns the socket leg's connection state.
func (t *Transport) State() protocol.ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ReconnectPending reports whether a reconnect attempt is already scheduled.
func (t *Transport) ReconnectPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reconnectPending
}

// connect performs one dial attempt. Failure schedules a reconnect; success
// starts the read pump.
func (t *Transport) connect(ctx context.Context) {
	t.setState(protocol.StateConnecting)

	conn, resp, err := t.dialer.DialContext(ctx, t.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.log.Warn("relay dial failed", zap.String("url", t.url), zap.Error(err))
		t.setState(protocol.StateClosed)
		t.scheduleReconnect(ctx)
		return
	}

	t.mu.Lock()
	t.conn = conn
	t.state = protocol.StateOpen
	t.mu.Unlock()
	t.log.Info("connected to relay", zap.String("url", t.url))

	go t.readPump(ctx, conn)
}

// readPump receives relayed payloads and posts them across the
// host-messaging channel until the socket closes.
func (t *Transport) readPump(ctx context.Context, conn *websocket.Conn) {
	defer t.handleClose(ctx, conn)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			t.log.Info("socket closed", zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			t.log.Warn("dropping non-text frame")
			continue
		}
		select {
		case t.toRuntime <- protocol.Wrap(data):
		case <-ctx.Done():
			return
		}
	}
}

// handleClose marks the socket CLOSED and schedules the single reconnect.
// Socket-level errors land here too: the transport forces a close rather
// than attempting in-place recovery.
func (t *Transport) handleClose(ctx context.Context, conn *websocket.Conn) {
	conn.Close()
	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
		t.state = protocol.StateClosed
	}
	t.mu.Unlock()
	t.scheduleReconnect(ctx)
}

// scheduleReconnect arms the fixed-delay reconnect timer unless one is
// already pending or the transport is shutting down.
func (t *Transport) scheduleReconnect(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	t.mu.Lock()
	if t.reconnectPending {
		t.mu.Unlock()
		return
	}
	t.reconnectPending = true
	t.mu.Unlock()

	t.log.Info("scheduling reconnect", zap.Duration("delay", t.delay))
	time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.reconnectPending = false
		t.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		t.connect(ctx)
	})
}

// runtimeLoop is the embedding context's single thread of control: it
// unwraps host-messaging envelopes, dispatches one command to completion at
// a time, and posts each response back to the surface. FIFO order from a
// single client is preserved by the channel.
func (t *Transport) runtimeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-t.toRuntime:
			payload, ok := env.Unwrap()
			if !ok {
				// Not a host message for us; ignore.
				continue
			}
			cmd, err := protocol.DecodeCommand(payload)
			if err != nil {
				// No id is recoverable from a malformed payload, so no
				// error response is produced; the sender must time out.
				t.log.Warn("dropping malformed command", zap.Error(err))
				continue
			}
			resp := t.dispatcher.Dispatch(ctx, cmd)
			t.post(resp)
		}
	}
}

// post serializes a response, wraps it for the host-messaging hop, and
// sends it out the socket. Responses produced while the socket is not open
// are dropped.
func (t *Transport) post(resp protocol.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		t.log.Error("failed to encode response", zap.String("id", resp.ID), zap.Error(err))
		return
	}
	payload, _ := protocol.Wrap(data).Unwrap()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != protocol.StateOpen || t.conn == nil {
		t.log.Warn("response dropped, socket not open",
			zap.String("id", resp.ID), zap.String("state", t.state.String()))
		return
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.log.Warn("response write failed", zap.String("id", resp.ID), zap.Error(err))
	}
}

func (t *Transport) setState(s protocol.ConnectionState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}
