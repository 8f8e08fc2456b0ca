package board

import (
	"strings"

	"github.com/pkg/errors"
)

// LegalMoves returns the legal moves of the piece standing on sq, in
// generation order. An empty square yields nil. A pawn reaching the last rank
// is reported once per destination as a queen promotion; the caller picks
// the final kind when applying it.
func (g *GameState) LegalMoves(sq Square) []Move {
	p := g.PieceAt(sq)
	if p == NoPiece {
		return nil
	}
	ml := NewMoveList()
	g.pieceMoves(ml, sq, true, false)
	g.filterLegal(ml, p.Color())
	if ml.Len() == 0 {
		return nil
	}
	return append([]Move(nil), ml.Slice()...)
}

// PseudoLegalMoves returns the moves of the piece on sq that follow its
// movement rules without checking the safety of its own king. Castling is
// never included.
func (g *GameState) PseudoLegalMoves(sq Square) []Move {
	if g.PieceAt(sq) == NoPiece {
		return nil
	}
	ml := NewMoveList()
	g.pieceMoves(ml, sq, false, false)
	return append([]Move(nil), ml.Slice()...)
}

// GenerateMoves appends every legal move of the side to move to ml, with each
// promotion expanded into queen, rook, bishop and knight.
func (g *GameState) GenerateMoves(ml *MoveList) {
	us := g.SideToMove
	start := ml.Len()
	for sq := A8; sq < NoSquare; sq++ {
		p := g.Board[sq]
		if p == NoPiece || p.Color() != us {
			continue
		}
		g.pieceMoves(ml, sq, true, true)
	}
	g.filterLegalFrom(ml, start, us)
}

// HasLegalMoves returns true if any piece of color c has a legal move.
func (g *GameState) HasLegalMoves(c Color) bool {
	ml := NewMoveList()
	for sq := A8; sq < NoSquare; sq++ {
		p := g.Board[sq]
		if p == NoPiece || p.Color() != c {
			continue
		}
		ml.Clear()
		g.pieceMoves(ml, sq, true, false)
		for i := 0; i < ml.Len(); i++ {
			if g.isLegal(ml.Get(i), c) {
				return true
			}
		}
	}
	return false
}

// IsInCheck returns true if c's king is attacked. A missing king is never in
// check.
func (g *GameState) IsInCheck(c Color) bool {
	ksq := g.Board.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return g.Board.IsSquareAttacked(ksq, c.Other())
}

// IsSquareAttacked returns true if any piece of color by attacks sq.
func (g *GameState) IsSquareAttacked(sq Square, by Color) bool {
	return g.Board.IsSquareAttacked(sq, by)
}

// pieceMoves appends the pseudo-legal moves of the piece on from. Dispatch is
// by piece kind; within a kind the order follows the direction tables.
func (g *GameState) pieceMoves(ml *MoveList, from Square, castling, expandPromotions bool) {
	p := g.Board[from]
	us := p.Color()

	switch p.Type() {
	case Pawn:
		g.pawnMoves(ml, from, us, expandPromotions)
	case Knight:
		g.stepMoves(ml, from, us, knightOffsets[:])
	case Bishop:
		g.slideMoves(ml, from, us, bishopDirs[:])
	case Rook:
		g.slideMoves(ml, from, us, rookDirs[:])
	case Queen:
		g.slideMoves(ml, from, us, queenDirs[:])
	case King:
		g.stepMoves(ml, from, us, kingOffsets[:])
		if castling {
			g.castlingMoves(ml, from, us)
		}
	}
}

func (g *GameState) pawnMoves(ml *MoveList, from Square, us Color, expand bool) {
	dir := pawnDir(us)
	row, col := from.Row(), from.Col()

	add := func(to Square) {
		if to.RelativeRow(us) == 7 {
			if !expand {
				ml.Add(NewPromotion(from, to, Queen))
				return
			}
			for _, pt := range PromotionTypes {
				ml.Add(NewPromotion(from, to, pt))
			}
			return
		}
		ml.Add(NewMove(from, to))
	}

	one := NewSquare(row+dir, col)
	if one != NoSquare && g.Board[one] == NoPiece {
		add(one)
		if from.RelativeRow(us) == 1 {
			two := NewSquare(row+2*dir, col)
			if g.Board[two] == NoPiece {
				ml.Add(NewMove(from, two))
			}
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := NewSquare(row+dir, col+dc)
		if to == NoSquare {
			continue
		}
		target := g.Board[to]
		switch {
		case target != NoPiece && target.Color() != us:
			add(to)
		case target == NoPiece && to == g.EnPassant:
			// The victim must stand beside the pawn on the file it captures toward.
			if g.Board.At(row, col+dc).Is(Pawn, us.Other()) {
				ml.Add(NewEnPassant(from, to))
			}
		}
	}
}

// stepMoves adds single jumps to empty or enemy squares (knight and king).
func (g *GameState) stepMoves(ml *MoveList, from Square, us Color, offsets [][2]int) {
	for _, o := range offsets {
		to := from.Offset(o[0], o[1])
		if to == NoSquare {
			continue
		}
		if t := g.Board[to]; t == NoPiece || t.Color() != us {
			ml.Add(NewMove(from, to))
		}
	}
}

// slideMoves walks each direction until the edge or the first piece,
// including that square when it holds an enemy.
func (g *GameState) slideMoves(ml *MoveList, from Square, us Color, dirs [][2]int) {
	for _, d := range dirs {
		to := from.Offset(d[0], d[1])
		for to != NoSquare {
			t := g.Board[to]
			if t != NoPiece {
				if t.Color() != us {
					ml.Add(NewMove(from, to))
				}
				break
			}
			ml.Add(NewMove(from, to))
			to = to.Offset(d[0], d[1])
		}
	}
}

// castlingMoves adds kingside then queenside castling when the right is held,
// the king and rook stand on their home squares, the squares between them are
// empty and the king neither starts in, passes through nor lands in check.
func (g *GameState) castlingMoves(ml *MoveList, from Square, us Color) {
	row := homeRow(us)
	if from != NewSquare(row, 4) {
		return
	}
	them := us.Other()
	rook := NewPiece(Rook, us)

	for _, kingSide := range [2]bool{true, false} {
		if !g.CastlingRights.CanCastle(us, kingSide) {
			continue
		}
		rookCol, step := 7, 1
		if !kingSide {
			rookCol, step = 0, -1
		}
		if g.Board.At(row, rookCol) != rook {
			continue
		}

		empty := true
		for c := 4 + step; c != rookCol; c += step {
			if g.Board.At(row, c) != NoPiece {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}

		// The king's start, transit and destination squares.
		safe := true
		for c := 4; c != 4+3*step; c += step {
			if g.kingAttackedOn(from, NewSquare(row, c), them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewCastling(from, NewSquare(row, 4+2*step)))
		}
	}
}

// kingAttackedOn places the king from kingSq on sq in a copy of the board
// and reports whether by attacks it there.
func (g *GameState) kingAttackedOn(kingSq, sq Square, by Color) bool {
	b := g.Board
	if sq != kingSq {
		b[sq] = b[kingSq]
		b[kingSq] = NoPiece
	}
	return b.IsSquareAttacked(sq, by)
}

// isLegal plays m on a copy of the board and reports whether us's king is
// left unattacked.
func (g *GameState) isLegal(m Move, us Color) bool {
	b := g.Board
	b.applyMove(m)
	ksq := b.KingSquare(us)
	if ksq == NoSquare {
		return true
	}
	return !b.IsSquareAttacked(ksq, us.Other())
}

func (g *GameState) filterLegal(ml *MoveList, us Color) {
	g.filterLegalFrom(ml, 0, us)
}

// filterLegalFrom compacts ml in place, keeping order, dropping illegal moves
// from index start on.
func (g *GameState) filterLegalFrom(ml *MoveList, start int, us Color) {
	n := start
	for i := start; i < ml.Len(); i++ {
		m := ml.Get(i)
		if g.isLegal(m, us) {
			ml.moves[n] = m
			n++
		}
	}
	ml.truncate(n)
}

// ParseUCIMove resolves coordinate notation ("e2e4", "e7e8q") against the
// legal moves of the side to move. A promotion without a suffix defaults to
// a queen.
func (g *GameState) ParseUCIMove(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) != 4 && len(s) != 5 {
		return NoMove, errors.Wrapf(ErrIllegalMove, "malformed move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, errors.Wrapf(ErrIllegalMove, "malformed move %q", s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, errors.Wrapf(ErrIllegalMove, "malformed move %q", s)
	}
	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceTypeFromChar(s[4])
		if !promo.IsPromotionTarget() {
			return NoMove, errors.Wrapf(ErrInvalidPromotion, "move %q", s)
		}
	}

	if p := g.PieceAt(from); p == NoPiece || p.Color() != g.SideToMove {
		return NoMove, errors.Wrapf(ErrIllegalMove, "move %q", s)
	}
	for _, m := range g.LegalMoves(from) {
		if m.To() != to {
			continue
		}
		if m.IsPromotion() && promo != NoPieceType {
			return m.WithPromotion(promo), nil
		}
		return m, nil
	}
	return NoMove, errors.Wrapf(ErrIllegalMove, "move %q", s)
}
