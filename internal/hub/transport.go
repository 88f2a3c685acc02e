package hub

import "github.com/Tege1337/chess2.0/pkg/types"

// Transport is what the core needs from the layer that owns the sockets.
// Every call is fire-and-forget and must not block.
type Transport interface {
	Unicast(connID string, msg types.ServerMessage)
	Broadcast(sessionID string, msg types.ServerMessage)
	// Bind makes connIDs the broadcast group for sessionID.
	Bind(sessionID string, connIDs ...string)
	Unbind(sessionID string)
}
