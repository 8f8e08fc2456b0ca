package board

import "github.com/pkg/errors"

var (
	// ErrIllegalMove is returned when a submitted move is not in the legal
	// move list of the side to move.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPromotion is returned for a promotion to a kind other than
	// queen, rook, bishop or knight.
	ErrInvalidPromotion = errors.New("invalid promotion piece")

	// ErrInvalidFEN is returned when a FEN string cannot be parsed.
	ErrInvalidFEN = errors.New("invalid FEN")
)
