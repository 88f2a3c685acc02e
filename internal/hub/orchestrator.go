package hub

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/internal/engine"
	"github.com/Tege1337/chess2.0/internal/session"
	"github.com/Tege1337/chess2.0/pkg/types"
)

const maxIDAttempts = 8

// Stats is a point-in-time count of the core's state.
type Stats struct {
	Connections int `json:"connections"`
	Waiting     int `json:"waiting"`
	Sessions    int `json:"sessions"`
}

// Orchestrator owns the connection registry, waiting queue and session
// registry and implements matchmaking, move arbitration, disconnect and
// rematch handling on top of them. It is not safe for concurrent use: Hub
// drives it from a single goroutine.
type Orchestrator struct {
	rules    engine.Rules
	out      Transport
	logger   *zap.Logger
	conns    *session.Connections
	queue    *session.Queue
	sessions *session.Registry

	newID func() string
	// coin reports whether the requester takes white.
	coin func() bool
}

type Option func(*Orchestrator)

// WithIDGenerator replaces the session id source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// WithCoin replaces the seat coin flip.
func WithCoin(fn func() bool) Option {
	return func(o *Orchestrator) { o.coin = fn }
}

func NewOrchestrator(rules engine.Rules, out Transport, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		rules:    rules,
		out:      out,
		logger:   logger,
		conns:    session.NewConnections(),
		queue:    session.NewQueue(),
		sessions: session.NewRegistry(),
		newID:    uuid.NewString,
		coin:     func() bool { return rand.IntN(2) == 0 },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Connect registers a live connection.
func (o *Orchestrator) Connect(connID string) {
	o.conns.Add(connID)
	o.logger.Debug("connection registered", zap.String("conn_id", connID))
}

func (o *Orchestrator) Stats() Stats {
	return Stats{
		Connections: o.conns.Count(),
		Waiting:     o.queue.Len(),
		Sessions:    o.sessions.Count(),
	}
}

// Report unicasts err to the connection whose request produced it.
func (o *Orchestrator) Report(connID string, err error) {
	if err == nil {
		return
	}
	msgType := types.EventError
	if errors.Is(err, ErrIllegalMove) {
		msgType = types.EventInvalidMove
	}
	o.out.Unicast(connID, types.ServerMessage{Type: msgType, Error: clientReason(err)})
}

// Shutdown retires every live session and logs who was still waiting. The
// hub calls it once its loop has stopped.
func (o *Orchestrator) Shutdown() {
	for _, s := range o.sessions.All() {
		o.retire(s.ID)
	}
	if waiting := o.queue.Snapshot(); len(waiting) > 0 {
		o.logger.Info("abandoning waiting players", zap.Strings("conn_ids", waiting))
	}
}

func (o *Orchestrator) sessionID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := o.newID()
		if !o.sessions.Has(id) {
			return id, nil
		}
		o.logger.Warn("session id collision, regenerating", zap.String("session_id", id))
	}
	return "", fmt.Errorf("%w: no free session id after %d attempts", ErrInternal, maxIDAttempts)
}

// retire removes a session from the registry and clears both seats' active
// reference to it.
func (o *Orchestrator) retire(sessionID string) {
	s, err := o.sessions.Delete(sessionID)
	if err != nil {
		return
	}
	for _, p := range s.Participants() {
		o.conns.Leave(p)
	}
	o.out.Unbind(sessionID)
	o.logger.Info("session retired",
		zap.String("session_id", sessionID),
		zap.Bool("terminal", s.Terminal),
	)
}
