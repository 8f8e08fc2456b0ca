// Package board implements the chess rules: an 8x8 mailbox board, legal move
// generation, move execution with exact undo, and game-end detection.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Index is row*8 + col where row 0 is rank 8 (Black's back rank) and
// col 0 is the a-file: A8=0, H8=7, A1=56, H1=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// NewSquare creates a square from row and column (0-indexed).
// Coordinates off the board yield NoSquare.
func NewSquare(row, col int) Square {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare
	}
	return Square(row*8 + col)
}

// Row returns the row of the square (0 = rank 8, 7 = rank 1).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column of the square (0 = a-file, 7 = h-file).
func (sq Square) Col() int {
	return int(sq) & 7
}

// Rank returns the chess rank number (1-8).
func (sq Square) Rank() int {
	return 8 - sq.Row()
}

// Offset returns the square dr rows and dc columns away, or NoSquare if that
// falls off the board.
func (sq Square) Offset(dr, dc int) Square {
	if sq >= NoSquare {
		return NoSquare
	}
	return NewSquare(sq.Row()+dr, sq.Col()+dc)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.Col(), sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	col := int(s[0] - 'a')
	rank := int(s[1] - '0')

	if col < 0 || col > 7 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(8-rank, col), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// RelativeRow returns the row counted from c's own back rank
// (0 = c's back rank, 7 = the promotion rank for c's pawns).
func (sq Square) RelativeRow(c Color) int {
	if c == White {
		return 7 - sq.Row()
	}
	return sq.Row()
}

// homeRow returns the back-rank row for the given color.
func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}
