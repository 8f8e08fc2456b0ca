package engine

import (
	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
)

// Search constants
const (
	Infinity  = 1000000
	MateScore = 100000
	MaxDepth  = 8
)

// Searcher performs the fixed-depth minimax search with alpha-beta pruning.
// It keeps no position state between searches, only counters.
type Searcher struct {
	nodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// BestMove searches g to depth plies and returns the best move for the side
// to move, scored from aiColor's point of view. ok is false when the side to
// move has no legal move. g is not modified.
func BestMove(g *board.GameState, aiColor board.Color, depth int) (board.Move, int, bool) {
	return NewSearcher().Search(g, aiColor, depth)
}

// Search is BestMove with node counting. The position is explored on a single
// clone using make and unmake. Depths below 1 are treated as 1.
func (s *Searcher) Search(g *board.GameState, aiColor board.Color, depth int) (board.Move, int, bool) {
	s.Reset()
	if depth < 1 {
		depth = 1
	}

	pos := g.Clone()
	var ml board.MoveList
	pos.GenerateMoves(&ml)
	if ml.Len() == 0 {
		return board.NoMove, s.terminalScore(pos, aiColor), false
	}

	maximizing := pos.SideToMove == aiColor
	alpha, beta := -Infinity, Infinity
	bestMove := board.NoMove
	bestScore := Infinity
	if maximizing {
		bestScore = -Infinity
	}

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		pos.MakeMove(m)
		score := s.minimax(pos, aiColor, depth-1, alpha, beta)
		pos.UndoMove()

		// Strict comparisons keep the first of equally scored moves.
		if maximizing {
			if score > bestScore || bestMove == board.NoMove {
				bestMove, bestScore = m, score
			}
			alpha = max(alpha, bestScore)
		} else {
			if score < bestScore || bestMove == board.NoMove {
				bestMove, bestScore = m, score
			}
			beta = min(beta, bestScore)
		}
	}

	return bestMove, bestScore, true
}

// minimax returns the value of pos for aiColor. The side to move maximizes
// when it is aiColor and minimizes otherwise.
func (s *Searcher) minimax(pos *board.GameState, aiColor board.Color, depth, alpha, beta int) int {
	s.nodes++

	if depth == 0 {
		return Evaluate(pos, aiColor)
	}

	var ml board.MoveList
	pos.GenerateMoves(&ml)
	if ml.Len() == 0 {
		return s.terminalScore(pos, aiColor)
	}

	if pos.SideToMove == aiColor {
		best := -Infinity
		for i := 0; i < ml.Len(); i++ {
			pos.MakeMove(ml.Get(i))
			best = max(best, s.minimax(pos, aiColor, depth-1, alpha, beta))
			pos.UndoMove()
			alpha = max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for i := 0; i < ml.Len(); i++ {
		pos.MakeMove(ml.Get(i))
		best = min(best, s.minimax(pos, aiColor, depth-1, alpha, beta))
		pos.UndoMove()
		beta = min(beta, best)
		if beta <= alpha {
			break
		}
	}
	return best
}

// terminalScore scores a position without legal moves: a mate counts
// against the mated side, a stalemate is even.
func (s *Searcher) terminalScore(pos *board.GameState, aiColor board.Color) int {
	us := pos.SideToMove
	if !pos.IsInCheck(us) {
		return 0
	}
	if us == aiColor {
		return -MateScore
	}
	return MateScore
}
