package engine

import (
	"errors"
)

var ErrIllegalMove = errors.New("illegal move")
var ErrUnknownPosition = errors.New("position not produced by this engine")

type Side string

const (
	// White is seat A and always moves first.
	White Side = "white"
	Black Side = "black"
)

func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

// Reason classifies why a position is terminal.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonCheckmate            Reason = "checkmate"
	ReasonStalemate            Reason = "stalemate"
	ReasonThreefoldRepetition  Reason = "threefold_repetition"
	ReasonFivefoldRepetition   Reason = "fivefold_repetition"
	ReasonFiftyMoveRule        Reason = "fifty_move_rule"
	ReasonSeventyFiveMoveRule  Reason = "seventy_five_move_rule"
	ReasonInsufficientMaterial Reason = "insufficient_material"
	ReasonDraw                 Reason = "draw"
)

// DefaultPromotion is used when a move request leaves the promotion piece empty.
const DefaultPromotion = "q"

type MoveRequest struct {
	From      string
	To        string
	Promotion string
}

// AppliedMove is the engine's account of a move it accepted.
type AppliedMove struct {
	From      string
	To        string
	Promotion string
	SAN       string
	Side      Side
}

// Position is opaque game state. Only the engine that produced it can read it;
// String returns a wire representation (FEN for chess).
type Position interface {
	String() string
}

// Rules is the capability the session core consumes. Implementations must
// treat positions as values: ApplyMove never mutates its input.
type Rules interface {
	NewPosition() Position
	ApplyMove(pos Position, req MoveRequest) (Position, AppliedMove, error)
	IsGameOver(pos Position) bool
	TerminalReason(pos Position) Reason
	SideToMove(pos Position) Side
	InCheck(pos Position) bool
}
