package hub

import (
	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/pkg/types"
)

// OnDisconnect removes every trace of connID: its queue entry, its session
// (notifying the opponent) and its registry record.
func (o *Orchestrator) OnDisconnect(connID string) {
	if o.queue.Remove(connID) {
		o.logger.Debug("removed from waiting queue", zap.String("conn_id", connID))
	}

	conn, ok := o.conns.Get(connID)
	if !ok {
		return
	}

	if conn.SessionID != "" {
		if s, ok := o.sessions.Get(conn.SessionID); ok {
			if opp, ok := s.Opponent(connID); ok {
				o.out.Unicast(opp, types.ServerMessage{Type: types.EventOpponentDisconnected})
			}
			o.retire(s.ID)
			if opp, ok := s.Opponent(connID); ok {
				o.conns.Forget(opp)
			}
		}
	} else if conn.LastOpponent != "" {
		// Game already over: tell a peer still waiting on a rematch.
		if opp, ok := o.conns.Get(conn.LastOpponent); ok && opp.LastOpponent == connID {
			o.out.Unicast(opp.ID, types.ServerMessage{Type: types.EventOpponentDisconnected})
			o.conns.Forget(opp.ID)
		}
	}

	o.conns.Forget(connID)
	o.conns.Remove(connID)
	o.logger.Debug("connection removed", zap.String("conn_id", connID))
}
