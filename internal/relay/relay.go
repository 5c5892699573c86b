// Package relay forwards opaque JSON payloads between one external
// automation client and one sandboxed execution context. It never inspects
// the command identifier or parameters; the only admission check is that a
// payload parses as JSON. Malformed input is logged and dropped.
package relay

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/logging"
	"github.com/inklab/canvasbridge/internal/monitoring"
)

// Relay legs. The client leg faces the external automation client; the
// plugin leg faces the execution context.
const (
	LegClient = "client"
	LegPlugin = "plugin"
)

// Relay holds at most one active connection per leg and shuttles messages
// between them. The single-connection policy is last-writer-wins: a new
// connection on a leg closes and replaces the previous one. Once a
// connection closes it is never redialed from here; reconnection is each
// side's own responsibility.
type Relay struct {
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu   sync.Mutex
	legs map[string]*websocket.Conn
}

// New creates an empty relay.
func New(log *logging.Logger, metrics *monitoring.Metrics) *Relay {
	return &Relay{
		log:     log,
		metrics: metrics,
		legs:    make(map[string]*websocket.Conn),
	}
}

// Serve attaches a connection to a leg and pumps its messages to the peer
// leg until the connection closes. It blocks for the connection's lifetime.
func (r *Relay) Serve(leg string, conn *websocket.Conn) {
	r.attach(leg, conn)
	r.metrics.ConnectionsTotal.WithLabelValues(leg).Inc()
	r.metrics.Connections.WithLabelValues(leg).Inc()
	defer func() {
		r.detach(leg, conn)
		r.metrics.Connections.WithLabelValues(leg).Dec()
	}()

	r.log.Info("connection open", zap.String("leg", leg))

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			r.log.Info("connection closed", zap.String("leg", leg), zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			r.drop(leg, "non-text frame")
			continue
		}
		if !json.Valid(data) {
			r.drop(leg, "malformed JSON")
			continue
		}
		r.forward(leg, data)
	}
}

// attach installs a connection on a leg, superseding any previous one.
func (r *Relay) attach(leg string, conn *websocket.Conn) {
	r.mu.Lock()
	old := r.legs[leg]
	r.legs[leg] = conn
	r.mu.Unlock()

	if old != nil {
		r.log.Warn("superseding existing connection", zap.String("leg", leg))
		r.metrics.Superseded.WithLabelValues(leg).Inc()
		old.Close()
	}
}

// detach clears the slot only if the given connection still owns it, so a
// superseded connection's exit does not evict its replacement.
func (r *Relay) detach(leg string, conn *websocket.Conn) {
	r.mu.Lock()
	if r.legs[leg] == conn {
		delete(r.legs, leg)
	}
	r.mu.Unlock()
	conn.Close()
}

// forward delivers a payload to the opposite leg, dropping it when no peer
// is attached or the write fails.
func (r *Relay) forward(from string, data []byte) {
	to := LegPlugin
	if from == LegPlugin {
		to = LegClient
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.legs[to]
	if target == nil {
		r.drop(from, "no peer connected")
		return
	}
	if err := target.WriteMessage(websocket.TextMessage, data); err != nil {
		r.log.Warn("relay write failed",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
		r.drop(from, "write failed")
		return
	}
	r.metrics.MessagesRelayed.WithLabelValues(from).Inc()
}

func (r *Relay) drop(from, reason string) {
	r.log.Warn("dropping message", zap.String("from", from), zap.String("reason", reason))
	r.metrics.MessagesDropped.WithLabelValues(from, reason).Inc()
}

// Connected reports whether a leg currently has a connection, for the health
// endpoint.
func (r *Relay) Connected(leg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.legs[leg] != nil
}
