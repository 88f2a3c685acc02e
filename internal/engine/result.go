package engine

import "strings"

// Summary renders the human-readable result line sent with gameOver.
// winner is only consulted for checkmate.
func Summary(reason Reason, winner Side) string {
	switch reason {
	case ReasonCheckmate:
		return titleSide(winner) + " wins by checkmate!"
	case ReasonStalemate:
		return "Draw by stalemate!"
	case ReasonThreefoldRepetition:
		return "Draw by threefold repetition!"
	case ReasonFivefoldRepetition:
		return "Draw by fivefold repetition!"
	case ReasonFiftyMoveRule:
		return "Draw by fifty-move rule!"
	case ReasonSeventyFiveMoveRule:
		return "Draw by seventy-five-move rule!"
	case ReasonInsufficientMaterial:
		return "Draw by insufficient material!"
	default:
		return "Draw!"
	}
}

func titleSide(s Side) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
