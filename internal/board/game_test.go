package board

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playUCI(t *testing.T, g *GameState, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		m, err := g.ParseUCIMove(mv)
		require.NoError(t, err, mv)
		g.MakeMove(m)
	}
}

func TestNewGame(t *testing.T) {
	g := NewGame()

	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < 8; col++ {
		assert.Equal(t, NewPiece(back[col], Black), g.At(0, col))
		assert.Equal(t, BlackPawn, g.At(1, col))
		assert.Equal(t, WhitePawn, g.At(6, col))
		assert.Equal(t, NewPiece(back[col], White), g.At(7, col))
		for row := 2; row < 6; row++ {
			assert.Equal(t, NoPiece, g.At(row, col))
		}
	}

	assert.Equal(t, White, g.SideToMove)
	assert.Equal(t, AllCastling, g.CastlingRights)
	assert.Equal(t, NoSquare, g.EnPassant)
	assert.Empty(t, g.History)
	assert.Empty(t, g.Repetitions)
	assert.Equal(t, g.ComputeHash(), g.Hash)
	assert.NoError(t, g.Validate())
}

func TestBoardQueriesAreTotal(t *testing.T) {
	g := NewGame()
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, -100}} {
		assert.Equal(t, NoPiece, g.At(rc[0], rc[1]))
	}
	assert.Equal(t, NoPiece, g.PieceAt(NoSquare))
	assert.Nil(t, g.LegalMoves(E4))
	assert.Nil(t, g.LegalMoves(NoSquare))
}

func TestLegalMovesFromStart(t *testing.T) {
	g := NewGame()

	total := 0
	for sq := A8; sq < NoSquare; sq++ {
		if p := g.PieceAt(sq); p != NoPiece && p.Color() == White {
			total += len(g.LegalMoves(sq))
		}
	}
	assert.Equal(t, 20, total)

	assert.Equal(t, []Move{NewMove(E2, E3), NewMove(E2, E4)}, g.LegalMoves(E2))
	assert.Equal(t, []Move{NewMove(G1, F3), NewMove(G1, H3)}, g.LegalMoves(G1))
	assert.Nil(t, g.LegalMoves(D1))
}

func TestEnPassant(t *testing.T) {
	g := NewGame()
	playUCI(t, g, "e2e4", "g8f6", "e4e5", "d7d5")

	require.Equal(t, D6, g.EnPassant)

	moves := g.LegalMoves(E5)
	ep := NewEnPassant(E5, D6)
	require.Contains(t, moves, ep)

	res, err := g.ApplyMove(E5, D6, NoPieceType)
	require.NoError(t, err)
	assert.True(t, res.IsCapture)
	assert.Equal(t, "exd6", res.Notation)

	assert.Equal(t, WhitePawn, g.PieceAt(D6))
	assert.Equal(t, NoPiece, g.PieceAt(D5), "victim must be removed from d5")
	assert.Equal(t, NoPiece, g.PieceAt(E5))
	assert.Equal(t, []PieceType{Pawn}, g.Captured[Black])

	rec, ok := g.LastMove()
	require.True(t, ok)
	assert.True(t, rec.EnPassant)
	assert.Equal(t, D5, rec.CapturedOn)

	require.True(t, g.UndoMove())
	assert.Equal(t, BlackPawn, g.PieceAt(D5))
	assert.Equal(t, WhitePawn, g.PieceAt(E5))
	assert.Equal(t, NoPiece, g.PieceAt(D6))
	assert.Equal(t, D6, g.EnPassant)
	assert.Empty(t, g.Captured[Black])
}

func TestEnPassantExpires(t *testing.T) {
	g := NewGame()
	playUCI(t, g, "e2e4", "g8f6", "e4e5", "d7d5", "b1c3", "b8c6")

	assert.Equal(t, NoSquare, g.EnPassant)
	assert.NotContains(t, g.LegalMoves(E5), NewEnPassant(E5, D6))
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingSide  bool
		queenSide bool
	}{
		{"both open", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", false, false},
		{"kingside blocked", "r3k2r/8/8/8/8/8/8/R3KN1R w KQkq - 0 1", false, true},
		{"queenside b-file blocked", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", true, false},
		{"in check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1", false, false},
		{"transit attacked", "r3k2r/8/8/8/5r2/8/8/R3K2R w KQkq - 0 1", false, true},
		{"destination attacked", "r3k2r/8/8/8/6r1/8/8/R3K2R w KQkq - 0 1", false, true},
		{"b1 attacked is fine", "r3k2r/8/8/8/1r6/8/8/R3K2R w KQkq - 0 1", true, true},
		{"queenside destination attacked", "r3k2r/8/8/8/2r5/8/8/R3K2R w KQkq - 0 1", true, false},
		{"rook missing", "r3k2r/8/8/8/8/8/8/4K2R w KQkq - 0 1", true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseFEN(tc.fen)
			require.NoError(t, err)

			moves := g.LegalMoves(E1)
			assert.Equal(t, tc.kingSide, containsMove(moves, NewCastling(E1, G1)), "kingside")
			assert.Equal(t, tc.queenSide, containsMove(moves, NewCastling(E1, C1)), "queenside")
		})
	}
}

func containsMove(moves []Move, m Move) bool {
	for _, x := range moves {
		if x == m {
			return true
		}
	}
	return false
}

func TestCastlingMovesRookAndClearsRights(t *testing.T) {
	g, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	res, err := g.ApplyMove(E1, G1, NoPieceType)
	require.NoError(t, err)
	assert.Equal(t, "O-O", res.Notation)
	assert.Equal(t, WhiteKing, g.PieceAt(G1))
	assert.Equal(t, WhiteRook, g.PieceAt(F1))
	assert.Equal(t, NoPiece, g.PieceAt(H1))
	assert.Equal(t, BlackKingSideCastle|BlackQueenSideCastle, g.CastlingRights)

	res, err = g.ApplyMove(E8, C8, NoPieceType)
	require.NoError(t, err)
	assert.Equal(t, "O-O-O", res.Notation)
	assert.Equal(t, BlackKing, g.PieceAt(C8))
	assert.Equal(t, BlackRook, g.PieceAt(D8))
	assert.Equal(t, NoCastling, g.CastlingRights)

	require.True(t, g.UndoMove())
	require.True(t, g.UndoMove())
	assert.Equal(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", g.FEN())
}

func TestRookMovesAndCapturesClearRights(t *testing.T) {
	g, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	// Rook leaves h1.
	_, err = g.ApplyMove(H1, H5, NoPieceType)
	require.NoError(t, err)
	assert.False(t, g.CastlingRights.CanCastle(White, true))
	assert.True(t, g.CastlingRights.CanCastle(White, false))

	// Black rook takes the rook on a1.
	_, err = g.ApplyMove(A8, A1, NoPieceType)
	require.NoError(t, err)
	assert.False(t, g.CastlingRights.CanCastle(White, false), "captured rook voids its right")
	assert.False(t, g.CastlingRights.CanCastle(Black, false), "moved rook voids its right")
	assert.True(t, g.CastlingRights.CanCastle(Black, true))
}

func TestPromotion(t *testing.T) {
	g, err := ParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	moves := g.LegalMoves(B7)
	require.Len(t, moves, 1)
	assert.True(t, moves[0].IsPromotion())

	before := g.FEN()
	res, err := g.ApplyMove(B7, B8, NoPieceType)
	require.NoError(t, err)
	assert.True(t, res.PromotionPending)
	assert.Equal(t, before, g.FEN(), "pending promotion must not change the game")
	assert.Empty(t, g.History)

	_, err = g.ApplyMove(B7, B8, King)
	assert.True(t, errors.Is(err, ErrInvalidPromotion))
	_, err = g.ApplyMove(B7, B8, Pawn)
	assert.True(t, errors.Is(err, ErrInvalidPromotion))

	res, err = g.ApplyMove(B7, B8, Knight)
	require.NoError(t, err)
	assert.False(t, res.PromotionPending)
	assert.Equal(t, "b8=N", res.Notation)
	assert.Equal(t, WhiteKnight, g.PieceAt(B8))

	require.True(t, g.UndoMove())
	assert.Equal(t, WhitePawn, g.PieceAt(B7))
	assert.Equal(t, before, g.FEN())
}

func TestGenerateMovesExpandsPromotions(t *testing.T) {
	g, err := ParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var ml MoveList
	g.GenerateMoves(&ml)

	var promos []PieceType
	for _, m := range ml.Slice() {
		if m.From() == B7 {
			promos = append(promos, m.Promotion())
		}
	}
	assert.Equal(t, []PieceType{Queen, Rook, Bishop, Knight}, promos)
}

func TestApplyMoveRejectsIllegal(t *testing.T) {
	g := NewGame()

	tests := []struct {
		name     string
		from, to Square
	}{
		{"empty square", E4, E5},
		{"opponent piece", E7, E5},
		{"not in move list", E2, E5},
		{"off board", NoSquare, E4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.ApplyMove(tc.from, tc.to, NoPieceType)
			require.Error(t, err)
			assert.Equal(t, ErrIllegalMove, errors.Cause(err))
		})
	}
	assert.Equal(t, StartFEN, g.FEN())
}

func TestPinnedPieceCannotMove(t *testing.T) {
	// Knight on e2 is pinned by the rook on e8.
	g, err := ParseFEN("4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Nil(t, g.LegalMoves(E2))
}

func TestUndoRoundTrip(t *testing.T) {
	g := NewGame()
	start := g.Clone()

	seq := []string{
		"e2e4", "d7d5", "e4d5", "g8f6", "f1b5", "c7c6", "d5c6", "d8a5",
		"c6b7", "a5b5", "b7a8q", "e8d7", "g1f3", "e7e5", "d2d3", "f8d6",
		"e1g1",
	}
	playUCI(t, g, seq...)
	require.Len(t, g.History, len(seq))
	require.Equal(t, WhiteQueen, g.PieceAt(A8))

	for range seq {
		require.True(t, g.UndoMove())
	}
	assert.False(t, g.UndoMove(), "undo on empty history")

	assert.Equal(t, start.Board, g.Board)
	assert.Equal(t, start.SideToMove, g.SideToMove)
	assert.Equal(t, start.CastlingRights, g.CastlingRights)
	assert.Equal(t, start.HalfMoveClock, g.HalfMoveClock)
	assert.Equal(t, start.FullMoveNumber, g.FullMoveNumber)
	assert.Equal(t, start.Hash, g.Hash)
	assert.Empty(t, g.Captured[White])
	assert.Empty(t, g.Captured[Black])
	assert.Empty(t, g.Repetitions)
}

func TestIncrementalHash(t *testing.T) {
	g := NewGame()
	for _, mv := range []string{"e2e4", "d7d5", "e4d5", "e8d7", "d5d6", "g8f6", "d6c7", "b8c6", "c7d8q"} {
		playUCI(t, g, mv)
		require.Equal(t, g.ComputeHash(), g.Hash, "after %s", mv)
	}
}

func TestFiftyMoveCounter(t *testing.T) {
	g := NewGame()

	playUCI(t, g, "g1f3")
	assert.Equal(t, 1, g.HalfMoveClock)
	playUCI(t, g, "g8f6")
	assert.Equal(t, 2, g.HalfMoveClock)
	playUCI(t, g, "e2e4")
	assert.Equal(t, 0, g.HalfMoveClock, "pawn push resets")
	playUCI(t, g, "b8c6")
	assert.Equal(t, 1, g.HalfMoveClock)
	playUCI(t, g, "f3e5")
	assert.Equal(t, 2, g.HalfMoveClock)
	playUCI(t, g, "c6e5")
	assert.Equal(t, 0, g.HalfMoveClock, "capture resets")

	require.True(t, g.UndoMove())
	assert.Equal(t, 2, g.HalfMoveClock, "undo restores the counter")
}

func TestFiftyMoveDraw(t *testing.T) {
	g, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 99 80")
	require.NoError(t, err)

	_, over := g.CheckGameEnd()
	assert.False(t, over)

	playUCI(t, g, "a1a2")
	end, over := g.CheckGameEnd()
	require.True(t, over)
	assert.Equal(t, FiftyMoveRule, end.Kind)
	assert.Equal(t, NoColor, end.Winner)
}

func TestThreefoldRepetition(t *testing.T) {
	g := NewGame()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	playUCI(t, g, shuffle...)
	assert.False(t, g.IsThreefoldRepetition())
	playUCI(t, g, shuffle...)
	assert.False(t, g.IsThreefoldRepetition())
	playUCI(t, g, shuffle...)
	assert.True(t, g.IsThreefoldRepetition())

	end, over := g.CheckGameEnd()
	require.True(t, over)
	assert.Equal(t, ThreefoldRepetition, end.Kind)
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGame()
	playUCI(t, g, "e2e4", "d7d5", "e4d5")

	c := g.Clone()
	playUCI(t, c, "d8d5")
	require.True(t, c.UndoMove())
	require.True(t, c.UndoMove())

	assert.Len(t, g.History, 3)
	assert.Equal(t, WhitePawn, g.PieceAt(D5))
	assert.Equal(t, []PieceType{Pawn}, g.Captured[Black])
}

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"pawn push", StartFEN, "e2e4", "e4"},
		{"knight", StartFEN, "g1f3", "Nf3"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "b1d2", "Nbd2"},
		{"rank disambiguation", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		{"check", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8+"},
		{"mate", "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8#"},
		{"promotion capture", "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7b8r", "axb8=R+"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseFEN(tc.fen)
			require.NoError(t, err)
			m, err := g.ParseUCIMove(tc.move)
			require.NoError(t, err)

			before := g.FEN()
			assert.Equal(t, tc.want, g.SAN(m))
			assert.Equal(t, before, g.FEN())

			parsed, err := g.ParseSAN(tc.want)
			require.NoError(t, err)
			assert.Equal(t, m, parsed)
		})
	}
}

func TestParseSANOverSpecified(t *testing.T) {
	g := NewGame()
	m, err := g.ParseSAN("Ngf3")
	require.NoError(t, err)
	assert.Equal(t, NewMove(G1, F3), m)

	m, err = g.ParseSAN("Ng1f3")
	require.NoError(t, err)
	assert.Equal(t, NewMove(G1, F3), m)

	// Pawn origins are coordinate notation, not SAN.
	_, err = g.ParseSAN("e2e4")
	assert.Equal(t, ErrIllegalMove, errors.Cause(err))

	_, err = g.ParseSAN("Qh5")
	assert.Equal(t, ErrIllegalMove, errors.Cause(err))
}

func TestMaterialBalance(t *testing.T) {
	g := NewGame()
	assert.Equal(t, 0, g.MaterialBalance(White))

	playUCI(t, g, "e2e4", "d7d5", "e4d5")
	assert.Equal(t, 100, g.MaterialBalance(White))
	assert.Equal(t, -100, g.MaterialBalance(Black))
}
