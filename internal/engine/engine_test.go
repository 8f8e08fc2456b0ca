package engine

import (
	"testing"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullMinimax is the unpruned reference search. It follows the same
// conventions as Searcher: first maximal root move wins, mates are ±MateScore.
func fullMinimax(g *board.GameState, aiColor board.Color, depth int, nodes *int) int {
	*nodes++
	if depth == 0 {
		return Evaluate(g, aiColor)
	}
	var ml board.MoveList
	g.GenerateMoves(&ml)
	if ml.Len() == 0 {
		if !g.IsInCheck(g.SideToMove) {
			return 0
		}
		if g.SideToMove == aiColor {
			return -MateScore
		}
		return MateScore
	}

	maximizing := g.SideToMove == aiColor
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range ml.Slice() {
		g.MakeMove(m)
		v := fullMinimax(g, aiColor, depth-1, nodes)
		g.UndoMove()
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

func fullBestMove(g *board.GameState, aiColor board.Color, depth int) (board.Move, int, int) {
	var ml board.MoveList
	g.GenerateMoves(&ml)
	maximizing := g.SideToMove == aiColor
	bestMove := board.NoMove
	bestScore := 0
	nodes := 0
	for _, m := range ml.Slice() {
		g.MakeMove(m)
		v := fullMinimax(g, aiColor, depth-1, &nodes)
		g.UndoMove()
		better := v > bestScore
		if !maximizing {
			better = v < bestScore
		}
		if bestMove == board.NoMove || better {
			bestMove, bestScore = m, v
		}
	}
	return bestMove, bestScore, nodes
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 0 1",
	}

	for _, fen := range fens {
		for depth := 1; depth <= 3; depth++ {
			g := board.MustParseFEN(fen)
			for _, ai := range []board.Color{board.White, board.Black} {
				wantMove, wantScore, fullNodes := fullBestMove(g, ai, depth)

				s := NewSearcher()
				gotMove, gotScore, ok := s.Search(g, ai, depth)
				require.True(t, ok)
				assert.Equal(t, wantMove, gotMove, "%s depth %d ai %s", fen, depth, ai)
				assert.Equal(t, wantScore, gotScore, "%s depth %d ai %s", fen, depth, ai)
				assert.LessOrEqual(t, s.Nodes(), uint64(fullNodes))
			}
		}
	}
}

func TestMateInOne(t *testing.T) {
	g := board.MustParseFEN("6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1")

	move, score, ok := BestMove(g, board.White, 2)
	require.True(t, ok)
	assert.Equal(t, "a1a8", move.String())
	assert.Equal(t, MateScore, score)
}

func TestBlackFindsFoolsMate(t *testing.T) {
	g := board.NewGame()
	for _, mv := range []string{"f2f3", "e7e5", "g2g4"} {
		m, err := g.ParseUCIMove(mv)
		require.NoError(t, err)
		g.MakeMove(m)
	}

	move, score, ok := BestMove(g, board.Black, 2)
	require.True(t, ok)
	assert.Equal(t, "d8h4", move.String())
	assert.Equal(t, MateScore, score)
}

func TestCapturesHangingQueen(t *testing.T) {
	g := board.MustParseFEN("4k3/8/8/3q4/8/8/3Q4/4K3 w - - 0 1")

	move, _, ok := BestMove(g, board.White, 1)
	require.True(t, ok)
	assert.Equal(t, "d2d5", move.String())
}

func TestSearchDoesNotMutate(t *testing.T) {
	g := board.NewGame()
	m, err := g.ParseUCIMove("e2e4")
	require.NoError(t, err)
	g.MakeMove(m)

	fen := g.FEN()
	hist := len(g.History)
	reps := append([]uint64(nil), g.Repetitions...)

	_, _, ok := BestMove(g, board.Black, 3)
	require.True(t, ok)

	assert.Equal(t, fen, g.FEN())
	assert.Len(t, g.History, hist)
	assert.Equal(t, reps, g.Repetitions)
}

func TestSearchIsDeterministic(t *testing.T) {
	g := board.MustParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")

	m1, s1, _ := BestMove(g, board.White, 3)
	m2, s2, _ := BestMove(g, board.White, 3)
	assert.Equal(t, m1, m2)
	assert.Equal(t, s1, s2)
}

func TestNoLegalMoves(t *testing.T) {
	mated := board.MustParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	move, score, ok := BestMove(mated, board.Black, 3)
	assert.False(t, ok)
	assert.Equal(t, board.NoMove, move)
	assert.Equal(t, -MateScore, score)

	stalemate := board.MustParseFEN("k7/2Q5/1K6/8/8/8/8/8 b - - 0 1")
	_, score, ok = BestMove(stalemate, board.Black, 3)
	assert.False(t, ok)
	assert.Equal(t, 0, score)
}

func TestDepthClampedToOne(t *testing.T) {
	g := board.NewGame()
	m0, s0, ok := BestMove(g, board.White, 0)
	require.True(t, ok)
	m1, s1, _ := BestMove(g, board.White, 1)
	assert.Equal(t, m1, m0)
	assert.Equal(t, s1, s0)
}

func TestEvaluate(t *testing.T) {
	g := board.NewGame()
	assert.Equal(t, 0, Evaluate(g, board.White))
	assert.Equal(t, 0, Evaluate(g, board.Black))

	m, err := g.ParseUCIMove("e2e4")
	require.NoError(t, err)
	g.MakeMove(m)

	// e2 is worth -20 and e4 +20 on the pawn table.
	assert.Equal(t, 40, Evaluate(g, board.White))
	assert.Equal(t, -40, Evaluate(g, board.Black))
}

func TestPieceSquareBonusMirrors(t *testing.T) {
	tests := []struct {
		white, black board.Square
		pt           board.PieceType
	}{
		{board.E2, board.E7, board.Pawn},
		{board.G1, board.G8, board.Knight},
		{board.G1, board.G8, board.King},
		{board.D4, board.D5, board.Queen},
		{board.A7, board.A2, board.Rook},
	}
	for _, tc := range tests {
		assert.Equal(t,
			PieceSquareBonus(board.NewPiece(tc.pt, board.White), tc.white),
			PieceSquareBonus(board.NewPiece(tc.pt, board.Black), tc.black),
			"%s %s/%s", tc.pt, tc.white, tc.black)
	}
	assert.Equal(t, 30, PieceSquareBonus(board.WhiteKing, board.G1))
	assert.Equal(t, 50, PieceSquareBonus(board.BlackPawn, board.C2))
}

func TestEngineDifficulty(t *testing.T) {
	eng := NewEngine()
	assert.Equal(t, Medium, eng.Difficulty())
	assert.Equal(t, 3, eng.Depth())

	eng.SetDifficulty(Hard)
	assert.Equal(t, 4, eng.Depth())

	eng.SetDepth(1)
	assert.Equal(t, 1, eng.Depth())
	eng.SetDifficulty(Easy)
	assert.Equal(t, 2, eng.Depth())

	d, err := ParseDifficulty("HARD")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)
	_, err = ParseDifficulty("grandmaster")
	assert.Error(t, err)
}

func TestSearchBasic(t *testing.T) {
	g := board.NewGame()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	var infos []SearchInfo
	eng.OnInfo = func(info SearchInfo) { infos = append(infos, info) }

	move := eng.Search(g)
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move.String())

	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Depth)
	assert.Equal(t, []board.Move{move}, infos[0].PV)
	assert.NotZero(t, infos[0].Nodes)
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{105, "1.05"},
		{-250, "-2.50"},
		{MateScore, "Mate"},
		{-MateScore, "Mated"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ScoreToString(tc.score))
	}
}
