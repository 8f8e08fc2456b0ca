package board

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a fresh GameState with empty history.
// The half-move clock and full-move number fields are optional.
func ParseFEN(fen string) (*GameState, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, errors.Wrapf(ErrInvalidFEN, "need at least 4 fields, got %d", len(parts))
	}

	g := &GameState{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}

	if err := parsePiecePlacement(&g.Board, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		g.SideToMove = White
	case "b":
		g.SideToMove = Black
	default:
		return nil, errors.Wrapf(ErrInvalidFEN, "side to move %q", parts[1])
	}

	if err := parseCastlingRights(g, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidFEN, "en passant square %q", parts[3])
		}
		g.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, errors.Wrapf(ErrInvalidFEN, "half-move clock %q", parts[4])
		}
		g.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, errors.Wrapf(ErrInvalidFEN, "full-move number %q", parts[5])
		}
		g.FullMoveNumber = fmn
	}

	g.Hash = g.ComputeHash()
	return g, nil
}

// MustParseFEN is like ParseFEN but panics on error. Intended for fixed
// positions in tests and tools.
func MustParseFEN(fen string) *GameState {
	g, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return g
}

// parsePiecePlacement fills b from the first FEN field, rank 8 first.
func parsePiecePlacement(b *Board, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return errors.Wrapf(ErrInvalidFEN, "need 8 ranks, got %d", len(rows))
	}

	for row, rowStr := range rows {
		col := 0
		for i := 0; i < len(rowStr); i++ {
			c := rowStr[i]
			if col > 7 {
				return errors.Wrapf(ErrInvalidFEN, "too many squares in rank %d", 8-row)
			}
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return errors.Wrapf(ErrInvalidFEN, "piece character %q", c)
			}
			b.Set(NewSquare(row, col), piece)
			col++
		}
		if col != 8 {
			return errors.Wrapf(ErrInvalidFEN, "rank %d has %d squares", 8-row, col)
		}
	}
	return nil
}

func parseCastlingRights(g *GameState, castling string) error {
	if castling == "-" {
		g.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			g.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			g.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			g.CastlingRights |= BlackKingSideCastle
		case 'q':
			g.CastlingRights |= BlackQueenSideCastle
		default:
			return errors.Wrapf(ErrInvalidFEN, "castling character %q", c)
		}
	}
	return nil
}

// FEN returns the FEN representation of the current position.
func (g *GameState) FEN() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := g.At(row, col)
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if g.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(g.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(g.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(g.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(g.FullMoveNumber))

	return sb.String()
}
