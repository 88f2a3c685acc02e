// Package types is the JSON wire protocol spoken over /ws.
//
// Client -> Server
//
//	findGame: {}
//	move:     from, to, promotion? ("q" when omitted)
//	rematch:  {}
//
// Server -> Client
//
//	waiting:              {}
//	gameStart:            sessionId, side, position
//	moveMade:             move, position, sideToMove     (both seats)
//	invalidMove:          error                          (requester only)
//	error:                error                          (requester only)
//	check:                {}                             (both seats)
//	gameOver:             result, reason, winner?        (both seats)
//	opponentDisconnected: {}
//	rematchRequested:     {}
package types

const (
	ClientFindGame = "findGame"
	ClientMove     = "move"
	ClientRematch  = "rematch"
)

const (
	EventWaiting              = "waiting"
	EventGameStart            = "gameStart"
	EventMoveMade             = "moveMade"
	EventInvalidMove          = "invalidMove"
	EventError                = "error"
	EventCheck                = "check"
	EventGameOver             = "gameOver"
	EventOpponentDisconnected = "opponentDisconnected"
	EventRematchRequested     = "rematchRequested"
)

type ClientMessage struct {
	Type      string `json:"type"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}

type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
	SAN       string `json:"san"`
	Color     string `json:"color"`
}

type ServerMessage struct {
	Type       string `json:"type"`
	SessionID  string `json:"sessionId,omitempty"`
	Side       string `json:"side,omitempty"`
	Position   string `json:"position,omitempty"`
	SideToMove string `json:"sideToMove,omitempty"`
	Move       *Move  `json:"move,omitempty"`
	Result     string `json:"result,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Winner     string `json:"winner,omitempty"`
	Error      string `json:"error,omitempty"`
}
