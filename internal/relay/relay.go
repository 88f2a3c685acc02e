// Package relay delivers server messages to live connections. Each connection
// owns a buffered outbox that its writer goroutine drains; the relay never
// blocks on a slow reader and drops it instead.
package relay

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/pkg/types"
)

type Relay struct {
	mu      sync.Mutex
	clients map[string]chan types.ServerMessage
	groups  map[string][]string
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Relay {
	return &Relay{
		clients: make(map[string]chan types.ServerMessage),
		groups:  make(map[string][]string),
		logger:  logger,
	}
}

// Attach registers outbox for connID. The relay closes outbox when the
// connection is detached, dropped or the relay shuts down.
func (r *Relay) Attach(connID string, outbox chan types.ServerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.clients[connID]; ok && old != outbox {
		close(old)
	}
	r.clients[connID] = outbox
}

// Detach closes and forgets connID's outbox. Safe to call more than once.
func (r *Relay) Detach(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop(connID)
}

func (r *Relay) Unicast(connID string, msg types.ServerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliver(connID, msg)
}

// Broadcast sends msg to every connection bound to sessionID.
func (r *Relay) Broadcast(sessionID string, msg types.ServerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.groups[sessionID] {
		r.deliver(id, msg)
	}
}

func (r *Relay) Bind(sessionID string, connIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[sessionID] = append([]string(nil), connIDs...)
}

func (r *Relay) Unbind(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, sessionID)
}

// Len reports how many outboxes are attached.
func (r *Relay) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Shutdown closes every outbox so writers can finish.
func (r *Relay) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.clients {
		r.drop(id)
	}
	clear(r.groups)
}

// deliver must be called with mu held.
func (r *Relay) deliver(connID string, msg types.ServerMessage) {
	ch, ok := r.clients[connID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		// Outbox full: the client is not keeping up.
		r.logger.Warn("dropping slow client",
			zap.String("conn_id", connID),
			zap.String("type", msg.Type),
		)
		r.drop(connID)
	}
}

func (r *Relay) drop(connID string) {
	if ch, ok := r.clients[connID]; ok {
		close(ch)
		delete(r.clients, connID)
	}
}
