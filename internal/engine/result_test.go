package engine

import "testing"

func TestSummary(t *testing.T) {
	cases := []struct {
		reason Reason
		winner Side
		want   string
	}{
		{ReasonCheckmate, White, "White wins by checkmate!"},
		{ReasonCheckmate, Black, "Black wins by checkmate!"},
		{ReasonStalemate, "", "Draw by stalemate!"},
		{ReasonThreefoldRepetition, "", "Draw by threefold repetition!"},
		{ReasonInsufficientMaterial, "", "Draw by insufficient material!"},
		{ReasonFiftyMoveRule, "", "Draw by fifty-move rule!"},
		{ReasonDraw, "", "Draw!"},
	}

	for _, tc := range cases {
		t.Run(string(tc.reason), func(t *testing.T) {
			if got := Summary(tc.reason, tc.winner); got != tc.want {
				t.Fatalf("Summary(%q, %q): got %q, want %q", tc.reason, tc.winner, got, tc.want)
			}
		})
	}
}

func TestSide_Opposite(t *testing.T) {
	if White.Opposite() != Black || Black.Opposite() != White {
		t.Fatalf("Opposite is not an involution")
	}
}
