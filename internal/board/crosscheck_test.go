package board

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/stretchr/testify/require"
)

func uciSet(g *GameState) []string {
	var ml MoveList
	g.GenerateMoves(&ml)
	out := make([]string, 0, ml.Len())
	for _, m := range ml.Slice() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func referenceSet(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	moves := b.GenerateLegalMoves()
	out := make([]string, 0, len(moves))
	for i := range moves {
		out = append(out, moves[i].String())
	}
	sort.Strings(out)
	return out
}

// TestCrossCheckLegalMoves walks a deterministic line from several positions
// and compares the legal move set with dragontoothmg at every node.
func TestCrossCheckLegalMoves(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			g, err := ParseFEN(fen)
			require.NoError(t, err)

			for ply := 0; ply < 40; ply++ {
				got := uciSet(g)
				require.Equal(t, referenceSet(g.FEN()), got, "ply %d at %s", ply, g.FEN())
				if len(got) == 0 {
					break
				}

				var ml MoveList
				g.GenerateMoves(&ml)
				g.MakeMove(ml.Get((ply*7 + 3) % ml.Len()))
			}
		})
	}
}
