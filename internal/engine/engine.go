package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
	"github.com/pkg/errors"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // Plies; values below 1 search one ply
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 3 ply
	Hard                     // 4 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2},
	Medium: {Depth: 3},
	Hard:   {Depth: 4},
}

// String returns the lowercase difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses "easy", "medium" or "hard" (case-insensitive).
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, errors.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher   *Searcher
	difficulty Difficulty
	depth      int // overrides difficulty when > 0

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine at Medium difficulty.
func NewEngine() *Engine {
	return &Engine{
		searcher:   NewSearcher(),
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty and drops any explicit depth.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
	e.depth = 0
}

// Difficulty returns the configured difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SetDepth fixes the search depth regardless of difficulty. Zero or less
// returns to the difficulty's depth.
func (e *Engine) SetDepth(depth int) {
	if depth > MaxDepth {
		depth = MaxDepth
	}
	e.depth = depth
}

// Depth returns the depth the next search will use.
func (e *Engine) Depth() int {
	if e.depth > 0 {
		return e.depth
	}
	return DifficultySettings[e.difficulty].Depth
}

// Search finds the best move for the side to move.
func (e *Engine) Search(g *board.GameState) board.Move {
	m, _ := e.SearchAs(g, g.SideToMove)
	return m
}

// SearchAs finds the best move for the side to move, scoring from aiColor's
// point of view. It returns NoMove when there is nothing to play.
func (e *Engine) SearchAs(g *board.GameState, aiColor board.Color) (board.Move, int) {
	return e.SearchWithLimits(g, aiColor, SearchLimits{Depth: e.Depth()})
}

// SearchWithLimits runs one search with explicit limits.
func (e *Engine) SearchWithLimits(g *board.GameState, aiColor board.Color, limits SearchLimits) (board.Move, int) {
	startTime := time.Now()
	move, score, ok := e.searcher.Search(g, aiColor, limits.Depth)

	if e.OnInfo != nil {
		info := SearchInfo{
			Depth: max(limits.Depth, 1),
			Score: score,
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(startTime),
		}
		if ok {
			info.PV = []board.Move{move}
		}
		e.OnInfo(info)
	}

	return move, score
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(g *board.GameState, depth int) uint64 {
	return uint64(g.Perft(depth))
}

// Evaluate returns the static evaluation of a position for the side to move.
func (e *Engine) Evaluate(g *board.GameState) int {
	return Evaluate(g, g.SideToMove)
}

// IsMateScore returns true for scores produced by a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= MateScore {
		return "Mate"
	}
	if score <= -MateScore {
		return "Mated"
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
