// Package mirror projects the album structure read from the Photos database
// onto the filesystem: it indexes the flat icloudpd backup, writes the album
// mapping JSON, and materializes album folders as symlinks or copies.
package mirror

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mtreskin/keepsake/pkg/types"
)

// Index maps upper-cased filenames to full paths inside the backup directory.
// The correlation between database rows and downloaded files is by filename
// only, so lookups are case-insensitive and best-effort.
type Index struct {
	files      map[string]string
	duplicates int
}

// BuildIndex walks sourceDir once and indexes every regular file by name.
// Dotfiles are skipped. When two files share a name the first one wins and a
// warning is logged. Returns types.ErrSourceDirMissing if sourceDir does not
// exist; this is checked before any output is written.
func BuildIndex(sourceDir string, log *zap.SugaredLogger) (*Index, error) {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrSourceDirMissing, sourceDir)
	}

	idx := &Index{files: make(map[string]string)}

	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}

		key := strings.ToUpper(name)
		if first, ok := idx.files[key]; ok {
			idx.duplicates++
			log.Warnw("duplicate filename in backup, keeping first match",
				"filename", name, "kept", first, "ignored", path)
			return nil
		}
		idx.files[key] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", sourceDir, err)
	}

	log.Debugw("indexed backup directory", "dir", sourceDir, "files", len(idx.files))
	return idx, nil
}

// Lookup returns the backup path for a filename, matched case-insensitively.
func (i *Index) Lookup(name string) (string, bool) {
	path, ok := i.files[strings.ToUpper(name)]
	return path, ok
}

// Len returns the number of indexed files.
func (i *Index) Len() int {
	return len(i.files)
}

// Duplicates returns how many name collisions were dropped during the walk.
func (i *Index) Duplicates() int {
	return i.duplicates
}
