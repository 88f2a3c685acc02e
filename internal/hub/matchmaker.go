package hub

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/internal/engine"
	"github.com/Tege1337/chess2.0/pkg/types"
)

// FindGame rejects requests from connections that are unknown, already
// queued or already playing, then hands off to RequestGame.
func (o *Orchestrator) FindGame(connID string) error {
	conn, ok := o.conns.Get(connID)
	if !ok {
		return ErrUnknownConnection
	}
	if o.queue.Contains(connID) {
		return ErrAlreadyQueued
	}
	if conn.SessionID != "" {
		return ErrAlreadyInSession
	}
	return o.RequestGame(connID)
}

// RequestGame pairs connID with the oldest waiting connection, or queues it
// when nobody is waiting. It assumes connID is registered and idle; FindGame
// enforces that.
func (o *Orchestrator) RequestGame(connID string) error {
	// A new search ends any pending rematch with the previous opponent.
	o.conns.Forget(connID)

	opponent, ok := o.queue.Pop()
	if !ok {
		o.queue.Push(connID)
		o.out.Unicast(connID, types.ServerMessage{Type: types.EventWaiting})
		o.logger.Info("player waiting", zap.String("conn_id", connID))
		return nil
	}
	if opponent == connID {
		o.queue.PushFront(opponent)
		return ErrSelfPairing
	}

	id, err := o.sessionID()
	if err != nil {
		o.queue.PushFront(opponent)
		return err
	}

	white, black := opponent, connID
	if o.coin() {
		white, black = connID, opponent
	}

	s, err := o.sessions.Create(id, white, black, o.rules.NewPosition())
	if err != nil {
		o.queue.PushFront(opponent)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	o.conns.Join(white, id, black)
	o.conns.Join(black, id, white)
	o.out.Bind(id, white, black)

	fen := s.Position.String()
	for _, p := range []string{connID, opponent} {
		side, _ := s.SideOf(p)
		o.out.Unicast(p, types.ServerMessage{
			Type:      types.EventGameStart,
			SessionID: id,
			Side:      string(side),
			Position:  fen,
		})
	}

	o.logger.Info("game started",
		zap.String("session_id", id),
		zap.String(string(engine.White), white),
		zap.String(string(engine.Black), black),
	)
	return nil
}
