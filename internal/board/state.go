package board

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castlingRight returns the single right for the given side and wing.
func castlingRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// CanCastle returns true if the given side still holds the right to castle in
// the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castlingRight(c, kingSide) != 0
}

// rightsLostOn maps a rook home square to the right that dies when anything
// leaves or lands on it.
var rightsLostOn = map[Square]CastlingRights{
	A1: WhiteQueenSideCastle,
	H1: WhiteKingSideCastle,
	A8: BlackQueenSideCastle,
	H8: BlackKingSideCastle,
}

// GameState is the mutable aggregate driving play. Every engine operation
// takes it explicitly; nothing is kept in package-level state.
type GameState struct {
	Board          Board
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Half-moves since the last pawn move or capture (fifty-move rule)
	FullMoveNumber int    // Full move counter, starts at 1

	// Captured holds the kinds taken from each color, in capture order.
	Captured [2][]PieceType

	History []MoveRecord

	// Repetitions has one position hash appended per move.
	Repetitions []uint64

	// Hash of the current board layout and side to move.
	Hash uint64
}

// NewGame creates a game at the standard starting position.
func NewGame() *GameState {
	g, _ := ParseFEN(StartFEN)
	return g
}

// Clone creates a deep copy of the game state.
func (g *GameState) Clone() *GameState {
	c := *g
	c.Captured[White] = append([]PieceType(nil), g.Captured[White]...)
	c.Captured[Black] = append([]PieceType(nil), g.Captured[Black]...)
	c.History = append([]MoveRecord(nil), g.History...)
	c.Repetitions = append([]uint64(nil), g.Repetitions...)
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (g *GameState) PieceAt(sq Square) Piece {
	return g.Board.PieceAt(sq)
}

// At returns the piece at (row, col); off-board coordinates are empty.
func (g *GameState) At(row, col int) Piece {
	return g.Board.At(row, col)
}

// LastMove returns the most recent history entry.
func (g *GameState) LastMove() (MoveRecord, bool) {
	if len(g.History) == 0 {
		return MoveRecord{}, false
	}
	return g.History[len(g.History)-1], true
}

// Notations returns the notation of every move played so far.
func (g *GameState) Notations() []string {
	out := make([]string, len(g.History))
	for i, rec := range g.History {
		out[i] = rec.Notation
	}
	return out
}

// MaterialBalance returns the base material of c's pieces minus the
// opponent's, kings excluded.
func (g *GameState) MaterialBalance(c Color) int {
	score := 0
	for _, p := range g.Board {
		if p == NoPiece || p.Type() == King {
			continue
		}
		if p.Color() == c {
			score += p.Value()
		} else {
			score -= p.Value()
		}
	}
	return score
}

// String returns a visual representation of the position.
func (g *GameState) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	sb.WriteString(g.Board.String())
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Side to move: %s\n", g.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", g.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", g.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", g.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", g.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", g.Hash)
	return sb.String()
}

// Validate checks the position for every invariant a game reachable by legal
// play must satisfy and reports all violations together.
func (g *GameState) Validate() error {
	var result error

	for _, c := range []Color{White, Black} {
		if n := g.Board.Count(King, c); n != 1 {
			result = multierror.Append(result, errors.Errorf("%s must have exactly one king, has %d", c, n))
		}
	}

	for col := 0; col < 8; col++ {
		for _, row := range []int{0, 7} {
			if g.At(row, col).Type() == Pawn {
				result = multierror.Append(result, errors.Errorf("pawn on back rank at %s", NewSquare(row, col)))
			}
		}
	}

	if g.SideToMove != White && g.SideToMove != Black {
		result = multierror.Append(result, errors.Errorf("invalid side to move %d", g.SideToMove))
	} else if g.IsInCheck(g.SideToMove.Other()) {
		result = multierror.Append(result, errors.Errorf("%s is in check but not to move", g.SideToMove.Other()))
	}

	if g.EnPassant != NoSquare {
		row := g.EnPassant.Row()
		if (g.SideToMove == White && row != 2) || (g.SideToMove == Black && row != 5) {
			result = multierror.Append(result, errors.Errorf("en passant target %s on wrong rank", g.EnPassant))
		}
	}

	return result
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (g *GameState) IsInsufficientMaterial() bool {
	var minors [2]int
	for _, p := range g.Board {
		switch p.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[p.Color()]++
		}
	}
	return minors[White]+minors[Black] <= 1
}
