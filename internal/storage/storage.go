package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/engine"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	keyGameSeq     = "seq/games"
	prefixGame     = "game/"
)

// ErrGameNotFound is returned when an archived game does not exist.
var ErrGameNotFound = errors.New("game not found")

// GameMode represents the game mode
type GameMode int

const (
	ModeHumanVsHuman GameMode = iota
	ModeHumanVsComputer
)

// String returns the short key used in statistics.
func (m GameMode) String() string {
	if m == ModeHumanVsComputer {
		return "hvc"
	}
	return "hvh"
}

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string            `json:"username"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	GameMode    GameMode          `json:"game_mode"`
	PlayerColor board.Color       `json:"player_color"`
	AutoSave    bool              `json:"auto_save"`
	LastPlayed  time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  engine.Medium,
		GameMode:    ModeHumanVsComputer,
		PlayerColor: board.White,
		AutoSave:    true,
		LastPlayed:  time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	DrawsByKind    map[string]int `json:"draws_by_kind"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode:  make(map[string]int),
		WinsByDiff:  make(map[string]int),
		DrawsByKind: make(map[string]int),
	}
}

// GameResult represents the result of a completed game from the human
// player's side.
type GameResult struct {
	Won         bool
	Draw        bool
	Termination board.Termination
	Mode        GameMode
	Difficulty  engine.Difficulty
	Duration    time.Duration
}

// NewGameResult derives the player's result from a finished game.
func NewGameResult(end board.GameEnd, player board.Color, mode GameMode, d engine.Difficulty, dur time.Duration) GameResult {
	return GameResult{
		Won:         end.Kind == board.Checkmate && end.Winner == player,
		Draw:        end.IsDraw(),
		Termination: end.Kind,
		Mode:        mode,
		Difficulty:  d,
		Duration:    dur,
	}
}

// GameRecord is an archived finished game.
type GameRecord struct {
	ID          uint64    `json:"id"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished"`
	White       string    `json:"white"`
	Black       string    `json:"black"`
	Result      string    `json:"result"`
	Termination string    `json:"termination"`
	Moves       int       `json:"moves"`
	FinalFEN    string    `json:"final_fen"`
	PGN         string    `json:"pgn"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "game sequence")
	}

	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.db.Close()
			return errors.Wrap(err, "release sequence")
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

func (s *Storage) putJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// getJSON decodes key into v. found is false when the key is absent and v
// is left untouched.
func (s *Storage) getJSON(key []byte, v interface{}) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, errors.Wrapf(err, "load %s", key)
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON([]byte(keyPreferences), prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON([]byte(keyPreferences), prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON([]byte(keyStats), stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON([]byte(keyStats), stats)
	if stats.DrawsByKind == nil {
		stats.DrawsByKind = make(map[string]int)
	}
	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
		stats.DrawsByKind[result.Termination.String()]++
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByMode[result.Mode.String()]++
		stats.WinsByDiff[result.Difficulty.String()]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func gameKey(id uint64) []byte {
	key := make([]byte, len(prefixGame)+8)
	copy(key, prefixGame)
	binary.BigEndian.PutUint64(key[len(prefixGame):], id)
	return key
}

// SaveGame archives rec under a new ID, which is stored in rec and returned.
func (s *Storage) SaveGame(rec *GameRecord) (uint64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, errors.Wrap(err, "next game id")
	}
	rec.ID = n + 1
	if rec.Finished.IsZero() {
		rec.Finished = time.Now()
	}
	if err := s.putJSON(gameKey(rec.ID), rec); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// GetGame loads an archived game.
func (s *Storage) GetGame(id uint64) (*GameRecord, error) {
	rec := &GameRecord{}
	found, err := s.getJSON(gameKey(id), rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrGameNotFound, "id %d", id)
	}
	return rec, nil
}

// DeleteGame removes an archived game.
func (s *Storage) DeleteGame(id uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := gameKey(id)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrGameNotFound, "id %d", id)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns archived games, newest first. limit <= 0 returns all.
func (s *Storage) ListGames(limit int) ([]*GameRecord, error) {
	var games []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(prefixGame), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for it.Seek(seek); it.ValidForPrefix([]byte(prefixGame)); it.Next() {
			if limit > 0 && len(games) >= limit {
				break
			}
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}
