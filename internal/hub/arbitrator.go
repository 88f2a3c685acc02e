package hub

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/internal/engine"
	"github.com/Tege1337/chess2.0/internal/session"
	"github.com/Tege1337/chess2.0/pkg/types"
)

// SubmitMove validates turn ownership, delegates legality to the rules
// engine and broadcasts the outcome. A rejected move leaves the session
// untouched.
func (o *Orchestrator) SubmitMove(connID string, req engine.MoveRequest) error {
	sessionID, ok := o.conns.SessionOf(connID)
	if !ok {
		return ErrNoActiveSession
	}
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		o.conns.Leave(connID)
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	side, ok := s.SideOf(connID)
	if !ok || s.Terminal {
		return ErrNoActiveSession
	}
	if side != o.rules.SideToMove(s.Position) {
		return ErrNotYourTurn
	}

	next, applied, err := o.applyMove(s.Position, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	s.Position = next

	o.out.Broadcast(s.ID, types.ServerMessage{
		Type: types.EventMoveMade,
		Move: &types.Move{
			From:      applied.From,
			To:        applied.To,
			Promotion: applied.Promotion,
			SAN:       applied.SAN,
			Color:     string(applied.Side),
		},
		Position:   next.String(),
		SideToMove: string(o.rules.SideToMove(next)),
	})
	o.logger.Debug("move applied",
		zap.String("session_id", s.ID),
		zap.String("side", string(side)),
		zap.String("move", applied.SAN),
	)

	if o.rules.IsGameOver(next) {
		o.finish(s)
		return nil
	}
	if o.rules.InCheck(next) {
		o.out.Broadcast(s.ID, types.ServerMessage{Type: types.EventCheck})
	}
	return nil
}

// applyMove shields the core from a rules engine that panics on malformed
// input.
func (o *Orchestrator) applyMove(pos engine.Position, req engine.MoveRequest) (next engine.Position, applied engine.AppliedMove, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("rules engine panicked", zap.Any("panic", r))
			next, applied, err = pos, engine.AppliedMove{}, fmt.Errorf("rules engine: %v", r)
		}
	}()
	return o.rules.ApplyMove(pos, req)
}

func (o *Orchestrator) finish(s *session.Session) {
	s.Terminal = true
	reason := o.rules.TerminalReason(s.Position)

	var winner engine.Side
	if reason == engine.ReasonCheckmate {
		// The side left to move is mated; the mover wins.
		winner = o.rules.SideToMove(s.Position).Opposite()
	}

	o.out.Broadcast(s.ID, types.ServerMessage{
		Type:   types.EventGameOver,
		Result: engine.Summary(reason, winner),
		Reason: string(reason),
		Winner: string(winner),
	})
	fields := []zap.Field{
		zap.String("session_id", s.ID),
		zap.String("reason", string(reason)),
	}
	if winner != "" {
		fields = append(fields,
			zap.String("winner", string(winner)),
			zap.String("winner_conn", s.Seat(winner)),
		)
	}
	o.logger.Info("game over", fields...)
	o.retire(s.ID)
}
