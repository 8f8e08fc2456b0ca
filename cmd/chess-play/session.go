package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/engine"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/pgn"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/storage"
)

const helpText = `Enter moves as SAN (Nf3, exd5, O-O, e8=Q) or coordinates (g1f3, e7e8q).
Commands:
  moves    list legal moves
  undo     take back your last move
  hint     ask the engine for a move
  board    redraw the board
  fen      print the position as FEN
  games    list archived games
  help     show this text
  quit     leave without finishing
`

// session plays one game on a terminal.
type session struct {
	g     *board.GameState
	eng   *engine.Engine
	store *storage.Storage // nil when nothing is saved
	prefs *storage.UserPreferences

	in  *bufio.Scanner
	out io.Writer

	started time.Time
	ended   *board.GameEnd
}

func newSession(eng *engine.Engine, store *storage.Storage, prefs *storage.UserPreferences, in io.Reader, out io.Writer) *session {
	return &session{
		g:       board.NewGame(),
		eng:     eng,
		store:   store,
		prefs:   prefs,
		in:      bufio.NewScanner(in),
		out:     out,
		started: time.Now(),
	}
}

func (s *session) vsComputer() bool {
	return s.prefs.GameMode == storage.ModeHumanVsComputer
}

func (s *session) humanToMove() bool {
	return !s.vsComputer() || s.g.SideToMove == s.prefs.PlayerColor
}

// run drives the game until it ends, the player quits or input runs out.
func (s *session) run() error {
	s.printBoard()
	for {
		if end, ok := s.g.CheckGameEnd(); ok {
			return s.finish(end)
		}

		if !s.humanToMove() {
			if err := s.computerMove(); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(s.out, "%s to move> ", s.g.SideToMove)
		line, ok := s.readLine()
		if !ok {
			return s.in.Err()
		}
		quit, err := s.handle(line)
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *session) readLine() (string, bool) {
	for s.in.Scan() {
		if line := strings.TrimSpace(s.in.Text()); line != "" {
			return line, true
		}
	}
	return "", false
}

// handle processes one line of input and reports whether the player quit.
func (s *session) handle(line string) (bool, error) {
	switch strings.ToLower(line) {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprint(s.out, helpText)
	case "board":
		s.printBoard()
	case "fen":
		fmt.Fprintln(s.out, s.g.FEN())
	case "moves":
		s.printMoves()
	case "undo":
		return false, s.undo()
	case "hint":
		m, score := s.eng.SearchAs(s.g, s.g.SideToMove)
		if m == board.NoMove {
			return false, errors.New("no legal moves")
		}
		fmt.Fprintf(s.out, "hint: %s (%s)\n", s.g.SAN(m), engine.ScoreToString(score))
	case "games":
		return false, s.printGames()
	default:
		return false, s.playInput(line)
	}
	return false, nil
}

// playInput resolves coordinate or SAN input and plays it, asking for the
// promotion kind when the input left it out.
func (s *session) playInput(text string) error {
	from, to, promo, err := s.resolve(text)
	if err != nil {
		return err
	}

	res, err := s.g.ApplyMove(from, to, promo)
	if err != nil {
		return err
	}
	for res.PromotionPending {
		fmt.Fprint(s.out, "Promote to (q/r/b/n)> ")
		line, ok := s.readLine()
		if !ok {
			return errors.New("promotion cancelled")
		}
		res, err = s.g.ApplyMove(from, to, board.PieceTypeFromChar(line[0]))
		if errors.Cause(err) == board.ErrInvalidPromotion {
			fmt.Fprintln(s.out, "choose one of q, r, b or n")
			res.PromotionPending = true
			continue
		}
		if err != nil {
			return err
		}
	}

	s.announce(res)
	return nil
}

// resolve turns input into squares. Coordinate input without a suffix leaves
// the promotion kind open; SAN input is matched against the legal moves.
func (s *session) resolve(text string) (board.Square, board.Square, board.PieceType, error) {
	lower := strings.ToLower(text)
	if len(lower) == 4 || len(lower) == 5 {
		from, errFrom := board.ParseSquare(lower[0:2])
		to, errTo := board.ParseSquare(lower[2:4])
		if errFrom == nil && errTo == nil {
			promo := board.NoPieceType
			if len(lower) == 5 {
				promo = board.PieceTypeFromChar(lower[4])
			}
			return from, to, promo, nil
		}
	}

	m, err := s.g.ParseSAN(text)
	if err != nil {
		return board.NoSquare, board.NoSquare, board.NoPieceType, err
	}
	return m.From(), m.To(), m.Promotion(), nil
}

func (s *session) computerMove() error {
	m, score := s.eng.SearchAs(s.g, s.g.SideToMove)
	if m == board.NoMove {
		return errors.New("engine found no move")
	}
	res, err := s.g.ApplyMove(m.From(), m.To(), m.Promotion())
	if err != nil {
		return errors.Wrapf(err, "engine move %s", m)
	}
	fmt.Fprintf(s.out, "Redmark (%s) plays %s, eval %s\n", s.eng.Difficulty(), res.Notation, engine.ScoreToString(score))
	s.announce(res)
	return nil
}

func (s *session) announce(res board.MoveResult) {
	s.printBoard()
	if res.IsCheck {
		fmt.Fprintln(s.out, "Check!")
	}
}

// undo takes back the last move, or the last full turn against the computer.
func (s *session) undo() error {
	if !s.g.UndoMove() {
		return errors.New("nothing to undo")
	}
	if s.vsComputer() && s.g.SideToMove != s.prefs.PlayerColor {
		s.g.UndoMove()
	}
	s.printBoard()
	return nil
}

func (s *session) printBoard() {
	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, s.g.Board.String())
	if last, ok := s.g.LastMove(); ok {
		fmt.Fprintf(s.out, "Last move: %s\n", last.Notation)
	}
}

func (s *session) printMoves() {
	ml := board.NewMoveList()
	s.g.GenerateMoves(ml)
	names := make([]string, 0, ml.Len())
	for _, m := range ml.Slice() {
		names = append(names, s.g.SAN(m))
	}
	fmt.Fprintln(s.out, strings.Join(names, " "))
}

func (s *session) printGames() error {
	if s.store == nil {
		return errors.New("saving is disabled")
	}
	games, err := s.store.ListGames(10)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(s.out, "no archived games")
		return nil
	}
	for _, rec := range games {
		fmt.Fprintf(s.out, "#%d %s  %s vs %s  %s (%s, %d moves)\n",
			rec.ID, rec.Finished.Format("2006-01-02 15:04"), rec.White, rec.Black,
			rec.Result, rec.Termination, rec.Moves)
	}
	return nil
}

func (s *session) playerNames() (string, string) {
	if !s.vsComputer() {
		return s.prefs.Username, s.prefs.Username
	}
	computer := "Redmark (" + s.eng.Difficulty().String() + ")"
	if s.prefs.PlayerColor == board.White {
		return s.prefs.Username, computer
	}
	return computer, s.prefs.Username
}

// finish reports the result and, when a store is attached, records the
// statistics and archives the game.
func (s *session) finish(end board.GameEnd) error {
	s.ended = &end
	if end.Kind == board.Checkmate {
		fmt.Fprintf(s.out, "Checkmate! %s wins (%s)\n", end.Winner, end.Result())
	} else {
		fmt.Fprintf(s.out, "Draw by %s (%s)\n", end.Kind, end.Result())
	}

	if s.store == nil {
		return nil
	}

	dur := time.Since(s.started)
	result := storage.NewGameResult(end, s.prefs.PlayerColor, s.prefs.GameMode, s.eng.Difficulty(), dur)
	if err := s.store.RecordGame(result); err != nil {
		return errors.Wrap(err, "record statistics")
	}

	white, black := s.playerNames()
	text, err := pgn.Encode(s.g, map[string]string{
		"Event":       "Redmark casual game",
		"Date":        s.started.Format("2006.01.02"),
		"White":       white,
		"Black":       black,
		"Termination": end.Kind.String(),
	}, &end)
	if err != nil {
		return errors.Wrap(err, "encode pgn")
	}

	rec := &storage.GameRecord{
		Started:     s.started,
		White:       white,
		Black:       black,
		Result:      end.Result(),
		Termination: end.Kind.String(),
		Moves:       len(s.g.History),
		FinalFEN:    s.g.FEN(),
		PGN:         text,
	}
	id, err := s.store.SaveGame(rec)
	if err != nil {
		return errors.Wrap(err, "archive game")
	}
	fmt.Fprintf(s.out, "Saved as game #%d\n", id)
	return nil
}
