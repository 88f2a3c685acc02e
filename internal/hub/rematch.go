package hub

import (
	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/pkg/types"
)

// RequestRematch relays a rematch prompt to the opponent of connID's current
// or just-finished game. It never creates a session: both sides start over
// with findGame.
func (o *Orchestrator) RequestRematch(connID string) error {
	conn, ok := o.conns.Get(connID)
	if !ok {
		return ErrUnknownConnection
	}
	if conn.LastOpponent == "" {
		return ErrNoActiveSession
	}
	opp, ok := o.conns.Get(conn.LastOpponent)
	if !ok || opp.LastOpponent != connID {
		return ErrNoActiveSession
	}

	o.out.Unicast(opp.ID, types.ServerMessage{Type: types.EventRematchRequested})
	o.logger.Debug("rematch requested",
		zap.String("conn_id", connID),
		zap.String("opponent", opp.ID),
	)
	return nil
}
