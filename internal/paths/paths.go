// Package paths resolves source locations and the configuration directory.
// Defaults match where macOS keeps the Photos library and the Voice Memos
// container; every location can be overridden by flag, config file, or
// environment variable.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variable names for location overrides.
const (
	EnvConfigDir     = "KEEPSAKE_CONFIG_DIR"
	EnvPhotosLibrary = "KEEPSAKE_PHOTOS_LIBRARY"
	EnvBackupDir     = "KEEPSAKE_BACKUP_DIR"
	EnvMemosDir      = "KEEPSAKE_MEMOS_DIR"
)

// Well-known file names inside the source containers.
const (
	PhotosDBName = "Photos.sqlite"
	MemosDBName  = "CloudRecordings.db"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/keepsake (fallback ~/.config/keepsake)
// macOS:   ~/Library/Application Support/keepsake
// Windows: %APPDATA%/keepsake
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "keepsake"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "keepsake"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "keepsake"), nil
	}
}

// DefaultPhotosLibrary returns the standard Photos.app library bundle path,
// ~/Pictures/Photos Library.photoslibrary.
func DefaultPhotosLibrary() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Pictures", "Photos Library.photoslibrary"), nil
}

// DefaultBackupDir returns the default icloudpd download location,
// ~/icloud-photos-backup.
func DefaultBackupDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "icloud-photos-backup"), nil
}

// DefaultMemosDir returns the Voice Memos shared group container that holds
// the recordings and CloudRecordings.db.
func DefaultMemosDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Group Containers",
		"group.com.apple.VoiceMemos.shared", "Recordings"), nil
}

// PhotosDB returns the path of the SQLite database inside a Photos library bundle.
func PhotosDB(library string) string {
	return filepath.Join(library, "database", PhotosDBName)
}

// MemosDB returns the path of the sync database inside the recordings container.
func MemosDB(memosDir string) string {
	return filepath.Join(memosDir, MemosDBName)
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > KEEPSAKE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// Resolve returns the first non-empty of flag and configValue as an absolute
// path, then the named environment variable, then the fallback default.
// This is the precedence chain every source location follows.
func Resolve(flag, configValue, envName string, fallback func() (string, error)) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(envName); env != "" {
		return filepath.Abs(env)
	}
	return fallback()
}
