// Package storage persists user preferences, game statistics and the archive
// of finished games in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

const appName = "redmark"

// DataDirEnv overrides the platform data directory when set.
const DataDirEnv = "CHESS_DATA_DIR"

// GetDataDir returns (and creates) the directory holding Redmark's data:
// $CHESS_DATA_DIR if set, else the per-user application data location.
func GetDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return ensureDir(dir)
	}
	base, err := userDataHome()
	if err != nil {
		return "", errors.Wrap(err, "locate user data directory")
	}
	return ensureDir(filepath.Join(base, appName))
}

// GetDatabaseDir returns the badger directory inside the data directory.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}

// userDataHome picks the conventional per-user data root for the platform.
func userDataHome() (string, error) {
	var fromEnv string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		fromEnv, fallback = os.Getenv("APPDATA"), []string{"AppData", "Roaming"}
	default:
		fromEnv, fallback = os.Getenv("XDG_DATA_HOME"), []string{".local", "share"}
	}
	if fromEnv != "" {
		return fromEnv, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", dir)
	}
	return dir, nil
}
