package board

import "strings"

// Board is the 8x8 grid of optional pieces, indexed by Square.
// The zero value is an empty board.
type Board [64]Piece

// At returns the piece at (row, col). Coordinates off the board are empty.
func (b *Board) At(row, col int) Piece {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoPiece
	}
	return b[row*8+col]
}

// PieceAt returns the piece on sq, or NoPiece for an empty or invalid square.
func (b *Board) PieceAt(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return b[sq]
}

// Set places p on sq. Invalid squares are ignored.
func (b *Board) Set(sq Square, p Piece) {
	if sq < NoSquare {
		b[sq] = p
	}
}

// IsEmpty returns true if sq holds no piece.
func (b *Board) IsEmpty(sq Square) bool {
	return b.PieceAt(sq) == NoPiece
}

// KingSquare returns the square of c's king, or NoSquare if it is missing.
func (b *Board) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A8; sq < NoSquare; sq++ {
		if b[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Count returns the number of pieces of the given type and color.
func (b *Board) Count(pt PieceType, c Color) int {
	target := NewPiece(pt, c)
	n := 0
	for _, p := range b {
		if p == target {
			n++
		}
	}
	return n
}

// applyMove moves pieces on the grid for m, including the en passant victim,
// the castling rook and the promoted piece. It does not touch any game state
// beyond the board and returns the captured piece and the square it stood on.
func (b *Board) applyMove(m Move) (Piece, Square) {
	from, to := m.From(), m.To()
	piece := b[from]

	capSq := to
	if m.IsEnPassant() {
		capSq = NewSquare(from.Row(), to.Col())
	}
	captured := b[capSq]
	b[capSq] = NoPiece

	b[to] = piece
	b[from] = NoPiece

	if m.IsPromotion() {
		b[to] = NewPiece(m.Promotion(), piece.Color())
	}

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		b[rookTo] = b[rookFrom]
		b[rookFrom] = NoPiece
	}

	if captured == NoPiece {
		capSq = NoSquare
	}
	return captured, capSq
}

// castlingRookSquares returns where the rook starts and lands for a king
// moving from -> to when castling.
func castlingRookSquares(from, to Square) (Square, Square) {
	row := from.Row()
	if to.Col() > from.Col() {
		return NewSquare(row, 7), NewSquare(row, to.Col()-1)
	}
	return NewSquare(row, 0), NewSquare(row, to.Col()+1)
}

// String returns a visual representation of the board, rank 8 first.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteString("  ")
		for col := 0; col < 8; col++ {
			p := b.At(row, col)
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
