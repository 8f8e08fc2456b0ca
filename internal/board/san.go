package board

import (
	"strings"

	"github.com/pkg/errors"
)

// SAN returns the Standard Algebraic Notation of m, which must be legal in
// the current position, including the check or mate suffix.
func (g *GameState) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}
	piece := g.PieceAt(m.From())
	if piece == NoPiece {
		return m.String()
	}

	san := g.sanBody(m, piece)

	g.MakeMove(m)
	them := g.SideToMove
	if g.IsInCheck(them) {
		if g.HasLegalMoves(them) {
			san += "+"
		} else {
			san += "#"
		}
	}
	g.UndoMove()

	return san
}

// sanBody returns the notation without check suffix.
func (g *GameState) sanBody(m Move, piece Piece) string {
	from, to := m.From(), m.To()

	if m.IsCastling() {
		if to.Col() > from.Col() {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	pt := piece.Type()

	if pt != Pawn {
		sb.WriteString(pt.Letter())
		sb.WriteString(g.disambiguation(m, piece))
	}

	if m.IsCapture(g) {
		if pt == Pawn {
			sb.WriteByte(byte('a' + from.Col()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteString(m.Promotion().Letter())
	}
	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from moves of other identical pieces to the same destination.
func (g *GameState) disambiguation(m Move, piece Piece) string {
	from, to := m.From(), m.To()

	var candidates []Square
	for sq := A8; sq < NoSquare; sq++ {
		if sq == from || g.Board[sq] != piece {
			continue
		}
		for _, other := range g.LegalMoves(sq) {
			if other.To() == to {
				candidates = append(candidates, sq)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.Col() == from.Col() {
			sameFile = true
		}
		if sq.Row() == from.Row() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.Col()))
	}
	if !sameRank {
		return string(rune('0' + from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves a SAN string against the legal moves of the side to move.
// Check, mate and annotation suffixes are ignored, and "0-0" is accepted for
// castling.
func (g *GameState) ParseSAN(s string) (Move, error) {
	want := normalizeSAN(s)
	if want == "" {
		return NoMove, errors.Wrapf(ErrIllegalMove, "empty SAN %q", s)
	}

	ml := NewMoveList()
	g.GenerateMoves(ml)
	for _, m := range ml.Slice() {
		if g.sanBody(m, g.Board[m.From()]) == want {
			return m, nil
		}
	}

	// Accept over-specified piece moves such as "Ngf3" or "Ng1f3".
	for _, m := range ml.Slice() {
		body := g.sanBody(m, g.Board[m.From()])
		if g.Board[m.From()].Type() != Pawn && len(body) > 1 && len(want) > len(body) &&
			want[0] == body[0] && strings.HasSuffix(want, body[1:]) {
			prefix := want[1 : len(want)-len(body)+1]
			if strings.HasPrefix(m.From().String(), prefix) || strings.HasSuffix(m.From().String(), prefix) {
				return m, nil
			}
		}
	}
	return NoMove, errors.Wrapf(ErrIllegalMove, "SAN %q", s)
}

func normalizeSAN(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")
	s = strings.ReplaceAll(s, "0", "O")
	return s
}

// MovesToSAN converts a sequence of moves played from g into SAN strings.
// g itself is left unchanged.
func (g *GameState) MovesToSAN(moves []Move) []string {
	out := make([]string, 0, len(moves))
	n := 0
	for _, m := range moves {
		out = append(out, g.SAN(m))
		g.MakeMove(m)
		n++
	}
	for ; n > 0; n-- {
		g.UndoMove()
	}
	return out
}
