package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShreeMarwadi/Redmark-Studio/internal/board"
	"github.com/ShreeMarwadi/Redmark-Studio/internal/engine"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != engine.Medium {
			t.Errorf("Expected medium difficulty")
		}
		if prefs.PlayerColor != board.White {
			t.Errorf("Expected white by default")
		}
		if !prefs.AutoSave {
			t.Errorf("Expected auto-save enabled by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, "Player", prefs.Username)

	prefs.Username = "ada"
	prefs.Difficulty = engine.Hard
	prefs.PlayerColor = board.Black
	require.NoError(t, s.SavePreferences(prefs))

	got, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, engine.Hard, got.Difficulty)
	assert.Equal(t, board.Black, got.PlayerColor)
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)

	first, err := s.IsFirstLaunch()
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, s.MarkFirstLaunchComplete())
	first, err = s.IsFirstLaunch()
	require.NoError(t, err)
	assert.False(t, first)
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	win := NewGameResult(board.GameEnd{Kind: board.Checkmate, Winner: board.White},
		board.White, ModeHumanVsComputer, engine.Hard, time.Minute)
	loss := NewGameResult(board.GameEnd{Kind: board.Checkmate, Winner: board.Black},
		board.White, ModeHumanVsComputer, engine.Hard, time.Minute)
	draw := NewGameResult(board.GameEnd{Kind: board.Stalemate, Winner: board.NoColor},
		board.White, ModeHumanVsComputer, engine.Easy, time.Minute)

	for _, r := range []GameResult{win, win, loss, win, draw} {
		require.NoError(t, s.RecordGame(r))
	}

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 5, stats.GamesPlayed)
	assert.Equal(t, 3, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 2, stats.LongestWinStrk)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 3, stats.WinsByDiff["hard"])
	assert.Equal(t, 3, stats.WinsByMode["hvc"])
	assert.Equal(t, 1, stats.DrawsByKind["stalemate"])
	assert.Equal(t, 5*time.Minute, stats.TotalPlayTime)
	assert.InDelta(t, 60.0, stats.GetWinRate(), 0.001)
}

func TestGameArchive(t *testing.T) {
	s := openTest(t)

	for i, result := range []string{"1-0", "0-1", "1/2-1/2"} {
		id, err := s.SaveGame(&GameRecord{
			White:  "Player",
			Black:  "Engine",
			Result: result,
			Moves:  10 + i,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), id)
	}

	games, err := s.ListGames(0)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "1/2-1/2", games[0].Result, "newest first")
	assert.Equal(t, "1-0", games[2].Result)

	games, err = s.ListGames(2)
	require.NoError(t, err)
	assert.Len(t, games, 2)

	rec, err := s.GetGame(2)
	require.NoError(t, err)
	assert.Equal(t, "0-1", rec.Result)
	assert.False(t, rec.Finished.IsZero())

	require.NoError(t, s.DeleteGame(2))
	_, err = s.GetGame(2)
	assert.Equal(t, ErrGameNotFound, errors.Cause(err))
	assert.Equal(t, ErrGameNotFound, errors.Cause(s.DeleteGame(2)))
}

func TestOpenOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	s, err := Open(dir)
	require.NoError(t, err)
	_, err = s.SaveGame(&GameRecord{Result: "1-0"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	games, err := s.ListGames(0)
	require.NoError(t, err)
	require.Len(t, games, 1)

	id, err := s.SaveGame(&GameRecord{Result: "0-1"})
	require.NoError(t, err)
	assert.Greater(t, id, games[0].ID, "ids keep increasing across reopen")
}

func TestDataPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(DataDirEnv, dir)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != dir {
		t.Errorf("GetDataDir = %s, want %s", dataDir, dir)
	}

	dbDir, err := GetDatabaseDir()
	require.NoError(t, err)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}
}

func TestDataPathsXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_DATA_HOME only applies on unix-like systems")
	}
	base := t.TempDir()
	t.Setenv(DataDirEnv, "")
	t.Setenv("XDG_DATA_HOME", base)

	dataDir, err := GetDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, appName), dataDir)
	assert.DirExists(t, dataDir)
}
