package hub

import (
	"errors"
)

var (
	ErrSelfPairing       = errors.New("cannot pair a connection with itself")
	ErrNoActiveSession   = errors.New("no active session")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrIllegalMove       = errors.New("illegal move")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownConnection = errors.New("unknown connection")
	ErrAlreadyQueued     = errors.New("already waiting for an opponent")
	ErrAlreadyInSession  = errors.New("already in a session")
	ErrInternal          = errors.New("internal error")
)

// clientReason is the text a requester sees for err.
func clientReason(err error) string {
	switch {
	case errors.Is(err, ErrIllegalMove):
		return "Invalid move"
	case errors.Is(err, ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, ErrNoActiveSession):
		return "No active game"
	case errors.Is(err, ErrSessionNotFound):
		return "Game not found"
	case errors.Is(err, ErrAlreadyQueued):
		return "Already waiting for an opponent"
	case errors.Is(err, ErrAlreadyInSession):
		return "Already in a game"
	case errors.Is(err, ErrSelfPairing):
		return "Cannot play against yourself"
	case errors.Is(err, ErrUnknownConnection):
		return "Unknown connection"
	default:
		return "Internal error"
	}
}
