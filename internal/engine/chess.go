package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/corentings/chess/v2"
)

// chessPosition is a replayable game: the starting FEN plus the UCI moves
// played since. The *chess.Game is a cache of that replay and is never handed
// to the chess library for mutation once built.
type chessPosition struct {
	start string
	moves []string
	game  *chess.Game
}

func (p *chessPosition) String() string { return p.game.FEN() }

// Chess implements Rules with github.com/corentings/chess/v2.
type Chess struct{}

func NewChess() *Chess { return &Chess{} }

func (c *Chess) NewPosition() Position {
	p, err := replay("", nil)
	if err != nil {
		// The standard start position always replays.
		panic(err)
	}
	return p
}

// fromFEN builds a position from an arbitrary FEN.
func fromFEN(fen string) (Position, error) {
	return replay(fen, nil)
}

func (c *Chess) ApplyMove(pos Position, req MoveRequest) (next Position, applied AppliedMove, err error) {
	p, ok := pos.(*chessPosition)
	if !ok {
		return pos, AppliedMove{}, ErrUnknownPosition
	}
	if p.game.Outcome() != chess.NoOutcome {
		return pos, AppliedMove{}, fmt.Errorf("%w: game is over", ErrIllegalMove)
	}

	defer func() {
		if r := recover(); r != nil {
			next, applied, err = pos, AppliedMove{}, fmt.Errorf("%w: %v", ErrIllegalMove, r)
		}
	}()

	from, to := normalizeSquare(req.From), normalizeSquare(req.To)
	if !validSquare(from) || !validSquare(to) {
		return pos, AppliedMove{}, fmt.Errorf("%w: bad squares %q-%q", ErrIllegalMove, req.From, req.To)
	}

	var candidates []string
	if req.Promotion != "" {
		promo, ok := promotionLetter(req.Promotion)
		if !ok {
			return pos, AppliedMove{}, fmt.Errorf("%w: bad promotion %q", ErrIllegalMove, req.Promotion)
		}
		candidates = []string{from + to + promo}
	} else {
		// Only a promoting pawn move needs the suffix; everything else
		// matches the bare form first.
		candidates = []string{from + to, from + to + DefaultPromotion}
	}

	// Work on a fresh replay so the caller's position is untouched whatever
	// happens below.
	work, err := replay(p.start, p.moves)
	if err != nil {
		return pos, AppliedMove{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	before := work.game.Position()

	for _, uci := range candidates {
		mv, ok := legalMove(before, uci)
		if !ok {
			continue
		}
		if merr := work.game.Move(mv, nil); merr != nil {
			continue
		}

		played := lastMove(work.game)
		applied = AppliedMove{
			From: played.S1().String(),
			To:   played.S2().String(),
			SAN:  chess.AlgebraicNotation{}.Encode(before, played),
			Side: sideOf(before.Turn()),
		}
		if played.Promo() != chess.NoPieceType {
			applied.Promotion = strings.ToLower(played.Promo().String())
		}

		work.moves = append(slices.Clone(p.moves), chess.UCINotation{}.Encode(before, played))
		claimDraws(work.game)
		return work, applied, nil
	}

	return pos, AppliedMove{}, fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
}

func (c *Chess) IsGameOver(pos Position) bool {
	p, ok := pos.(*chessPosition)
	if !ok {
		return false
	}
	return p.game.Outcome() != chess.NoOutcome
}

func (c *Chess) TerminalReason(pos Position) Reason {
	p, ok := pos.(*chessPosition)
	if !ok || p.game.Outcome() == chess.NoOutcome {
		return ReasonNone
	}
	switch p.game.Method() {
	case chess.Checkmate:
		return ReasonCheckmate
	case chess.Stalemate:
		return ReasonStalemate
	case chess.ThreefoldRepetition:
		return ReasonThreefoldRepetition
	case chess.FivefoldRepetition:
		return ReasonFivefoldRepetition
	case chess.FiftyMoveRule:
		return ReasonFiftyMoveRule
	case chess.SeventyFiveMoveRule:
		return ReasonSeventyFiveMoveRule
	case chess.InsufficientMaterial:
		return ReasonInsufficientMaterial
	default:
		return ReasonDraw
	}
}

func (c *Chess) SideToMove(pos Position) Side {
	p, ok := pos.(*chessPosition)
	if !ok {
		return White
	}
	return sideOf(p.game.Position().Turn())
}

func (c *Chess) InCheck(pos Position) bool {
	p, ok := pos.(*chessPosition)
	if !ok {
		return false
	}
	last := lastMove(p.game)
	return last != nil && last.HasTag(chess.Check)
}

func replay(fen string, moves []string) (*chessPosition, error) {
	game := chess.NewGame()
	if fen != "" {
		opt, err := chess.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("parsing fen: %w", err)
		}
		game = chess.NewGame(opt)
	}
	for _, uci := range moves {
		mv, ok := legalMove(game.Position(), uci)
		if !ok {
			return nil, fmt.Errorf("replaying %s: %w", uci, ErrIllegalMove)
		}
		if err := game.Move(mv, nil); err != nil {
			return nil, fmt.Errorf("replaying %s: %w", uci, err)
		}
	}
	claimDraws(game)
	return &chessPosition{start: fen, moves: slices.Clone(moves), game: game}, nil
}

// legalMove resolves uci against the legal moves of pos. Game.Move applies
// whatever it is given, so every move goes through here first. The returned
// move is the generator's own, carrying its check and capture tags.
func legalMove(pos *chess.Position, uci string) (*chess.Move, bool) {
	mv, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return nil, false
	}
	valid := pos.ValidMoves()
	for i := range valid {
		if valid[i].S1() == mv.S1() && valid[i].S2() == mv.S2() && valid[i].Promo() == mv.Promo() {
			return &valid[i], true
		}
	}
	return nil, false
}

// claimDraws ends the game on draws the library only marks as claimable.
func claimDraws(game *chess.Game) {
	if game.Outcome() != chess.NoOutcome {
		return
	}
	for _, m := range game.EligibleDraws() {
		if m == chess.ThreefoldRepetition || m == chess.FiftyMoveRule {
			_ = game.Draw(m)
			return
		}
	}
}

func lastMove(game *chess.Game) *chess.Move {
	moves := game.Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

func sideOf(c chess.Color) Side {
	if c == chess.Black {
		return Black
	}
	return White
}

func normalizeSquare(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

func promotionLetter(p string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "q", "queen":
		return "q", true
	case "r", "rook":
		return "r", true
	case "b", "bishop":
		return "b", true
	case "n", "knight":
		return "n", true
	default:
		return "", false
	}
}
