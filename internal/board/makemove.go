package board

import "github.com/pkg/errors"

// MoveResult describes the outcome of ApplyMove.
type MoveResult struct {
	Move      Move
	IsCapture bool
	IsCheck   bool
	Notation  string

	// PromotionPending is set when a pawn move to the last rank was submitted
	// without a promotion kind. Nothing was changed; submit it again with one.
	PromotionPending bool
}

// ApplyMove validates and plays the move from -> to for the side to move.
// promo selects the promotion kind and is ignored for other moves.
func (g *GameState) ApplyMove(from, to Square, promo PieceType) (MoveResult, error) {
	p := g.PieceAt(from)
	if p == NoPiece || p.Color() != g.SideToMove {
		return MoveResult{}, errors.Wrapf(ErrIllegalMove, "%s%s", from, to)
	}

	m := NoMove
	for _, lm := range g.LegalMoves(from) {
		if lm.To() == to {
			m = lm
			break
		}
	}
	if m == NoMove {
		return MoveResult{}, errors.Wrapf(ErrIllegalMove, "%s%s", from, to)
	}

	if m.IsPromotion() {
		if promo == NoPieceType {
			return MoveResult{Move: m, PromotionPending: true}, nil
		}
		if !promo.IsPromotionTarget() {
			return MoveResult{}, errors.Wrapf(ErrInvalidPromotion, "%s%s=%s", from, to, promo)
		}
		m = m.WithPromotion(promo)
	}

	notation := g.SAN(m)
	capture := m.IsCapture(g)
	g.MakeMove(m)
	g.History[len(g.History)-1].Notation = notation

	return MoveResult{
		Move:      m,
		IsCapture: capture,
		IsCheck:   g.IsInCheck(g.SideToMove),
		Notation:  notation,
	}, nil
}

// MakeMove plays m, which must be legal in the current position, and records
// it in the history. No notation is produced.
func (g *GameState) MakeMove(m Move) {
	from, to := m.From(), m.To()
	piece := g.Board[from]
	us := g.SideToMove

	rec := MoveRecord{
		From:              from,
		To:                to,
		Piece:             piece,
		Promotion:         m.Promotion(),
		EnPassant:         m.IsEnPassant(),
		Castling:          m.IsCastling(),
		PrevCastling:      g.CastlingRights,
		PrevEnPassant:     g.EnPassant,
		PrevHalfMoveClock: g.HalfMoveClock,
		PrevFullMove:      g.FullMoveNumber,
		PrevHash:          g.Hash,
	}

	captured, capSq := g.Board.applyMove(m)
	rec.Captured, rec.CapturedOn = captured, capSq

	hash := g.Hash ^ zobristPiece[piece][from] ^ zobristPiece[g.Board[to]][to]
	if captured != NoPiece {
		hash ^= zobristPiece[captured][capSq]
		g.Captured[captured.Color()] = append(g.Captured[captured.Color()], captured.Type())
	}
	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		rook := g.Board[rookTo]
		hash ^= zobristPiece[rook][rookFrom] ^ zobristPiece[rook][rookTo]
	}
	g.Hash = hash ^ zobristSideToMove

	if piece.Type() == King {
		g.CastlingRights &^= castlingRight(us, true) | castlingRight(us, false)
	}
	g.CastlingRights &^= rightsLostOn[from] | rightsLostOn[to]

	g.EnPassant = NoSquare
	if piece.Type() == Pawn && abs(to.Row()-from.Row()) == 2 {
		g.EnPassant = NewSquare((from.Row()+to.Row())/2, from.Col())
	}

	if piece.Type() == Pawn || captured != NoPiece {
		g.HalfMoveClock = 0
	} else {
		g.HalfMoveClock++
	}

	if us == Black {
		g.FullMoveNumber++
	}
	g.SideToMove = us.Other()

	g.History = append(g.History, rec)
	g.Repetitions = append(g.Repetitions, g.Hash)
}

// UndoMove takes back the most recent move. It returns false when there is
// no history.
func (g *GameState) UndoMove() bool {
	n := len(g.History)
	if n == 0 {
		return false
	}
	rec := g.History[n-1]
	g.History = g.History[:n-1]
	if k := len(g.Repetitions); k > 0 {
		g.Repetitions = g.Repetitions[:k-1]
	}

	g.Board[rec.To] = NoPiece
	g.Board[rec.From] = rec.Piece
	if rec.Captured != NoPiece {
		g.Board[rec.CapturedOn] = rec.Captured
		c := rec.Captured.Color()
		if k := len(g.Captured[c]); k > 0 {
			g.Captured[c] = g.Captured[c][:k-1]
		}
	}
	if rec.Castling {
		rookFrom, rookTo := castlingRookSquares(rec.From, rec.To)
		g.Board[rookFrom] = g.Board[rookTo]
		g.Board[rookTo] = NoPiece
	}

	g.SideToMove = rec.Piece.Color()
	g.CastlingRights = rec.PrevCastling
	g.EnPassant = rec.PrevEnPassant
	g.HalfMoveClock = rec.PrevHalfMoveClock
	g.FullMoveNumber = rec.PrevFullMove
	g.Hash = rec.PrevHash
	return true
}
