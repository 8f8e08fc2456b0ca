// Package uci drives the engine over the Universal Chess Interface protocol.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine *engine.Engine
	game   *board.GameState

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // guards out

	// Search state. A search runs on a clone, so the game may be replaced
	// only after waiting for it.
	searching  bool
	searchDone chan struct{}
}

// New creates a new UCI protocol handler reading commands from in and
// writing responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine: eng,
		game:   board.NewGame(),
		in:     in,
		out:    out,
	}
}

func (u *UCI) println(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

// Run processes commands until "quit" or end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleStop()
			u.println("%s", u.game.String())
			u.println("Fen: %s", u.game.FEN())
		case "eval":
			u.handleStop()
			u.println("Evaluation: %s (side to move)", engine.ScoreToString(u.engine.Evaluate(u.game)))
		case "perft":
			u.handlePerft(args)
		default:
			u.println("info string Unknown command: %s", cmd)
		}
	}

	u.handleStop()
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name Redmark")
	u.println("id author Redmark Studio")
	u.println("")
	u.println("option name Difficulty type combo default medium var easy var medium var hard")
	u.println("option name Depth type spin default 0 min 0 max %d", engine.MaxDepth)
	u.println("uciok")
}

// handleNewGame resets the game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.game = board.NewGame()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.handleStop()

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var g *board.GameState
	switch args[0] {
	case "startpos":
		g = board.NewGame()
	case "fen":
		var err error
		g, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.println("info string Invalid FEN: %v", err)
			return
		}
		if err := g.Validate(); err != nil {
			u.println("info string Invalid position: %v", strings.ReplaceAll(err.Error(), "\n", " "))
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			m, err := g.ParseUCIMove(moveStr)
			if err != nil {
				u.println("info string Invalid move: %s", moveStr)
				return
			}
			g.MakeMove(m)
		}
	}

	u.game = g
}

// GoOptions holds parsed "go" command options. Only depth limits the
// search; clock fields are accepted and ignored.
type GoOptions struct {
	Depth    int
	MoveTime time.Duration
	Infinite bool
}

func parseGoOptions(args []string) GoOptions {
	var opts GoOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		}
	}
	return opts
}

// handleGo starts a search on a clone of the current game.
func (u *UCI) handleGo(args []string) {
	u.handleStop()
	opts := parseGoOptions(args)

	limits := engine.SearchLimits{Depth: u.engine.Depth()}
	if opts.Depth > 0 {
		limits.Depth = min(opts.Depth, engine.MaxDepth)
	}

	u.engine.OnInfo = u.sendInfo

	g := u.game.Clone()
	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		best, _ := u.engine.SearchWithLimits(g, g.SideToMove, limits)
		if best == board.NoMove {
			u.println("bestmove 0000")
			return
		}
		u.println("bestmove %s", best)
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	switch {
	case info.Score >= engine.MateScore:
		parts = append(parts, "score mate 1")
	case info.Score <= -engine.MateScore:
		parts = append(parts, "score mate -1")
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	u.println("info %s", strings.Join(parts, " "))
}

// handleStop waits for a running search. Searches cannot be interrupted,
// so this blocks until the best move has been sent.
func (u *UCI) handleStop() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	u.handleStop()
	var name, value []string
	target := &name
	for _, a := range args {
		switch a {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, a)
		}
	}

	key := strings.ToLower(strings.Join(name, " "))
	val := strings.Join(value, " ")

	switch key {
	case "difficulty":
		d, err := engine.ParseDifficulty(val)
		if err != nil {
			u.println("info string %v", err)
			return
		}
		u.engine.SetDifficulty(d)
	case "depth":
		depth, err := strconv.Atoi(val)
		if err != nil {
			u.println("info string Invalid depth: %s", val)
			return
		}
		u.engine.SetDepth(depth)
	default:
		log.Printf("uci: ignoring unknown option %q", key)
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	u.handleStop()
	depth := 4
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	nodes := u.engine.Perft(u.game, depth)
	elapsed := time.Since(start)

	u.println("Nodes: %d", nodes)
	u.println("Time: %v", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.println("NPS: %.0f", nps)
	}
}
