// Package pgn converts game histories to and from Portable Game Notation.
package pgn

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
)

// ErrEmptyGame is returned when a PGN source holds no game.
var ErrEmptyGame = errors.New("pgn: no game found")

// Seven tag roster order; other tags follow alphabetically.
var rosterOrder = []string{"Event", "Site", "Date", "Round", "White", "Black"}

// Game is a decoded PGN game replayed into a GameState.
type Game struct {
	Tags   map[string]string
	State  *board.GameState
	Result string
}

// Encode renders the moves played in g as PGN. The position g started from is
// recovered by undoing a clone, so g itself is untouched. end, when not nil,
// fixes the result for draws the PGN library cannot infer on its own.
func Encode(g *board.GameState, tags map[string]string, end *board.GameEnd) (string, error) {
	start := g.Clone()
	for start.UndoMove() {
	}

	var opts []func(*chess.Game)
	startFEN := start.FEN()
	if startFEN != board.StartFEN {
		fen, err := chess.FEN(startFEN)
		if err != nil {
			return "", errors.Wrap(err, "pgn: start position")
		}
		opts = append(opts, fen)
	}
	game := chess.NewGame(opts...)

	for _, key := range orderedKeys(tags) {
		game.AddTagPair(key, tags[key])
	}
	if startFEN != board.StartFEN {
		game.AddTagPair("SetUp", "1")
		game.AddTagPair("FEN", startFEN)
	}

	for i, rec := range g.History {
		uci := rec.Move().String()
		m, err := chess.UCINotation{}.Decode(game.Position(), uci)
		if err != nil {
			return "", errors.Wrapf(err, "pgn: move %d %s", i+1, uci)
		}
		if err := game.Move(m); err != nil {
			return "", errors.Wrapf(err, "pgn: move %d %s", i+1, uci)
		}
	}

	if end != nil && game.Outcome() == chess.NoOutcome {
		settleOutcome(game, *end)
	}

	return game.String(), nil
}

// settleOutcome records a draw or result the library did not detect itself.
func settleOutcome(game *chess.Game, end board.GameEnd) {
	var method chess.Method
	switch end.Kind {
	case board.FiftyMoveRule:
		method = chess.FiftyMoveRule
	case board.ThreefoldRepetition:
		method = chess.ThreefoldRepetition
	}
	if method != chess.NoMethod && game.Draw(method) == nil {
		return
	}
	game.AddTagPair("Result", end.Result())
	game.AddTagPair("Termination", end.Kind.String())
}

func orderedKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for _, k := range rosterOrder {
		if _, ok := tags[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range tags {
		if !isRoster(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func isRoster(key string) bool {
	for _, k := range rosterOrder {
		if k == key {
			return true
		}
	}
	return false
}

// Decode reads a single PGN game and replays it.
func Decode(r io.Reader) (*Game, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "pgn: read")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyGame
	}
	opt, err := chess.PGN(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "pgn: decode")
	}
	return replay(chess.NewGame(opt))
}

// DecodeAll reads every game in r. A game that fails to parse or replay is
// skipped and its error returned with the others; the games that did decode
// are returned either way.
func DecodeAll(r io.Reader) ([]*Game, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "pgn: read")
	}

	chunks := splitGames(string(data))
	if len(chunks) == 0 {
		return nil, ErrEmptyGame
	}

	var (
		games  []*Game
		result error
	)
	for i, chunk := range chunks {
		g, err := decodeChunk(chunk)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "game %d", i+1))
			continue
		}
		games = append(games, g)
	}
	return games, result
}

func decodeChunk(chunk string) (*Game, error) {
	opt, err := chess.PGN(strings.NewReader(chunk))
	if err != nil {
		return nil, errors.Wrap(err, "pgn: decode")
	}
	return replay(chess.NewGame(opt))
}

// splitGames cuts a PGN database into single games. A game ends where a tag
// line follows movetext; the last game needs no trailing blank line.
func splitGames(src string) []string {
	var (
		chunks  []string
		cur     strings.Builder
		inMoves bool
	)
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			chunks = append(chunks, cur.String())
		}
		cur.Reset()
		inMoves = false
	}

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "["):
			if inMoves {
				flush()
			}
		case trimmed != "":
			inMoves = true
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	flush()
	return chunks
}

// replay rebuilds a GameState from the moves of a library game.
func replay(game *chess.Game) (*Game, error) {
	positions := game.Positions()
	if len(positions) == 0 {
		return nil, ErrEmptyGame
	}

	state, err := board.ParseFEN(positions[0].String())
	if err != nil {
		return nil, errors.Wrap(err, "pgn: start position")
	}

	for i, m := range game.Moves() {
		mv, err := state.ParseUCIMove(m.String())
		if err != nil {
			return nil, errors.Wrapf(err, "pgn: move %d", i+1)
		}
		state.MakeMove(mv)
		state.History[len(state.History)-1].Notation = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}

	tags := make(map[string]string)
	for _, tp := range game.TagPairs() {
		tags[tp.Key] = tp.Value
	}

	return &Game{
		Tags:   tags,
		State:  state,
		Result: string(game.Outcome()),
	}, nil
}
