// Package session holds the state the matchmaking core owns: live game
// sessions, the connection registry and the waiting queue. None of the types
// here are safe for concurrent use; the hub serializes every access.
package session

import (
	"github.com/Tege1337/chess2.0/internal/engine"
)

// Session is one in-progress game between two distinct connections.
type Session struct {
	ID       string
	White    string
	Black    string
	Position engine.Position
	Terminal bool
}

// SideOf reports which seat connID occupies.
func (s *Session) SideOf(connID string) (engine.Side, bool) {
	switch connID {
	case s.White:
		return engine.White, true
	case s.Black:
		return engine.Black, true
	default:
		return "", false
	}
}

// Opponent returns the connection seated across from connID.
func (s *Session) Opponent(connID string) (string, bool) {
	switch connID {
	case s.White:
		return s.Black, true
	case s.Black:
		return s.White, true
	default:
		return "", false
	}
}

// Seat returns the connection holding side.
func (s *Session) Seat(side engine.Side) string {
	if side == engine.White {
		return s.White
	}
	return s.Black
}

// Participants returns both connection ids, white first.
func (s *Session) Participants() []string {
	return []string{s.White, s.Black}
}
