package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// This is the standard way to verify move generation correctness.
func (g *GameState) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}

	var ml MoveList
	g.GenerateMoves(&ml)
	if depth == 1 {
		return int64(ml.Len())
	}

	var nodes int64
	for i := 0; i < ml.Len(); i++ {
		g.MakeMove(ml.Get(i))
		nodes += g.Perft(depth - 1)
		g.UndoMove()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, in generation
// order. A depth below 1 has no root moves to divide and returns nothing.
func (g *GameState) PerftDivide(depth int) ([]Move, map[Move]int64) {
	if depth <= 0 {
		return nil, map[Move]int64{}
	}

	var ml MoveList
	g.GenerateMoves(&ml)

	moves := append([]Move(nil), ml.Slice()...)
	counts := make(map[Move]int64, len(moves))
	for _, m := range moves {
		g.MakeMove(m)
		counts[m] = g.Perft(depth - 1)
		g.UndoMove()
	}
	return moves, counts
}
