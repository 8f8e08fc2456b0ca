package board

// Termination is the reason a game ended.
type Termination uint8

const (
	NoTermination Termination = iota
	Checkmate
	Stalemate
	FiftyMoveRule
	ThreefoldRepetition
)

// String returns the termination name.
func (t Termination) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty-move rule"
	case ThreefoldRepetition:
		return "threefold repetition"
	default:
		return "none"
	}
}

// GameEnd reports a finished game. Winner is NoColor for draws.
type GameEnd struct {
	Kind   Termination
	Winner Color
}

// IsDraw returns true for every termination except checkmate.
func (e GameEnd) IsDraw() bool {
	return e.Kind != Checkmate
}

// Result returns the PGN result string ("1-0", "0-1" or "1/2-1/2").
func (e GameEnd) Result() string {
	switch {
	case e.Kind == Checkmate && e.Winner == White:
		return "1-0"
	case e.Kind == Checkmate && e.Winner == Black:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// IsCheckmate returns true if c is in check and has no legal move.
func (g *GameState) IsCheckmate(c Color) bool {
	return g.IsInCheck(c) && !g.HasLegalMoves(c)
}

// IsStalemate returns true if c is not in check and has no legal move.
func (g *GameState) IsStalemate(c Color) bool {
	return !g.IsInCheck(c) && !g.HasLegalMoves(c)
}

// IsFiftyMoveDraw returns true after 100 half-moves without a capture or pawn move.
func (g *GameState) IsFiftyMoveDraw() bool {
	return g.HalfMoveClock >= 100
}

// IsThreefoldRepetition returns true if the latest position hash occurs at
// least three times in the repetition history.
func (g *GameState) IsThreefoldRepetition() bool {
	n := len(g.Repetitions)
	if n == 0 {
		return false
	}
	last := g.Repetitions[n-1]
	count := 0
	for _, h := range g.Repetitions {
		if h == last {
			count++
		}
	}
	return count >= 3
}

// CheckGameEnd tests the side to move for checkmate, stalemate, the
// fifty-move rule and threefold repetition, in that order.
func (g *GameState) CheckGameEnd() (GameEnd, bool) {
	us := g.SideToMove
	if !g.HasLegalMoves(us) {
		if g.IsInCheck(us) {
			return GameEnd{Kind: Checkmate, Winner: us.Other()}, true
		}
		return GameEnd{Kind: Stalemate, Winner: NoColor}, true
	}
	if g.IsFiftyMoveDraw() {
		return GameEnd{Kind: FiftyMoveRule, Winner: NoColor}, true
	}
	if g.IsThreefoldRepetition() {
		return GameEnd{Kind: ThreefoldRepetition, Winner: NoColor}, true
	}
	return GameEnd{}, false
}
