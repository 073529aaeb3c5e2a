// Shared helpers for keepsake CLI commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mtreskin/keepsake/internal/paths"
	"github.com/mtreskin/keepsake/internal/photos"
	"github.com/mtreskin/keepsake/pkg/types"
)

// fail prints the error and exits. System errors (missing database, missing
// source directory, unreadable database) exit 2; everything else is a user
// error and exits 1.
func fail(context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", context, err)
	if errors.Is(err, types.ErrDatabaseMissing) ||
		errors.Is(err, types.ErrSourceDirMissing) ||
		errors.Is(err, types.ErrDataAccess) {
		os.Exit(exitSysError)
	}
	os.Exit(exitUserError)
}

// resolvePhotosLibrary resolves the Photos library bundle path from the
// --photos-library flag, config.yaml, KEEPSAKE_PHOTOS_LIBRARY, or the macOS
// default, in that order.
func resolvePhotosLibrary() (string, error) {
	return paths.Resolve(flagPhotosLibrary, cfg.GetString(cfgKeyPhotosLibrary),
		paths.EnvPhotosLibrary, paths.DefaultPhotosLibrary)
}

// resolveBackupDir resolves the icloudpd backup directory.
func resolveBackupDir(flag string) (string, error) {
	return paths.Resolve(flag, cfg.GetString(cfgKeyBackupDir),
		paths.EnvBackupDir, paths.DefaultBackupDir)
}

// resolveMemosDir resolves the Voice Memos recordings container.
func resolveMemosDir(flag string) (string, error) {
	return paths.Resolve(flag, cfg.GetString(cfgKeyMemosDir),
		paths.EnvMemosDir, paths.DefaultMemosDir)
}

// readLibrary opens the Photos database read-only and reads the full album
// snapshot.
func readLibrary() (string, []types.Album, []types.PhotoRef, error) {
	libraryPath, err := resolvePhotosLibrary()
	if err != nil {
		return "", nil, nil, fmt.Errorf("resolve photos library: %w", err)
	}

	lib, err := photos.Open(paths.PhotosDB(libraryPath))
	if err != nil {
		return "", nil, nil, err
	}
	defer lib.Close()

	albums, err := lib.Albums()
	if err != nil {
		return "", nil, nil, fmt.Errorf("read albums: %w", err)
	}
	favorites, err := lib.Favorites()
	if err != nil {
		return "", nil, nil, fmt.Errorf("read favorites: %w", err)
	}
	return libraryPath, albums, favorites, nil
}
