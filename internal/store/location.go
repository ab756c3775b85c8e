// ABOUTME: Storage location resolution for the database file
// ABOUTME: Host app dir, then platform local data dir, then ./data

package store

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppDirName is the subfolder created under the platform data directory.
	AppDirName = "VitaNote"

	// DefaultFileName is the database file created inside the data directory.
	DefaultFileName = "vitanote.db"
)

// DirResolver is supplied by the host application to point the store at its
// per-app data directory.
type DirResolver interface {
	AppDataDir() (string, error)
}

// DirResolverFunc adapts a function to DirResolver.
type DirResolverFunc func() (string, error)

func (f DirResolverFunc) AppDataDir() (string, error) { return f() }

// StaticDir is a DirResolver that always returns the same directory.
type StaticDir string

func (d StaticDir) AppDataDir() (string, error) {
	if d == "" {
		return "", errors.New("no directory configured")
	}
	return string(d), nil
}

// LocalDataDir returns the platform's per-user local data directory.
// Linux and other unixes: $XDG_DATA_HOME or ~/.local/share.
// macOS: ~/Library/Application Support. Windows: %LOCALAPPDATA%.
func LocalDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("%LOCALAPPDATA% is not defined")
	case "darwin", "ios":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// resolveDataDir picks the data directory in fixed priority order:
// host resolver, platform local data dir + AppDirName, ./data.
func resolveDataDir(r DirResolver, logger *slog.Logger) string {
	if r != nil {
		dir, err := r.AppDataDir()
		if err == nil && dir != "" {
			return dir
		}
		logger.Debug("host data directory unavailable, falling back", "error", err)
	}

	dir, err := LocalDataDir()
	if err == nil && dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	logger.Debug("local data directory unavailable, falling back", "error", err)

	return filepath.Join(".", "data")
}
