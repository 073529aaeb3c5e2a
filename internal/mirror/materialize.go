package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"go.uber.org/zap"

	"github.com/mtreskin/keepsake/pkg/types"
)

// FavoritesDirName is the synthetic album directory holding favorite photos.
const FavoritesDirName = "_Favorites"

func init() {
	exif.RegisterParsers(mknote.All...)
}

// Materializer writes album directories under OutputDir, pointing back into
// SourceDir. The run is a single pass; each photo succeeds or is counted as a
// miss independently.
type Materializer struct {
	OutputDir  string
	SourceDir  string
	Mode       string // types.LinkModeSymlink or types.LinkModeCopy
	StampTimes bool   // copy mode only: set mtime from EXIF DateTime
	Log        *zap.SugaredLogger
}

// AlbumReport is the per-album outcome of a materialize run.
type AlbumReport struct {
	Album   string // display path, disambiguated
	Found   int
	Missing int
}

// Report aggregates a materialize run.
type Report struct {
	Albums  []AlbumReport
	Found   int
	Missing int
}

// sanitizeName keeps letters, digits, spaces, '-' and '_' and replaces
// everything else with '_', matching how album names become directory names.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Run materializes all albums and, when present, favorites. The index must be
// built from SourceDir beforehand; BuildIndex has already verified the source
// exists. Albums with zero members still produce an empty directory.
func (m *Materializer) Run(index *Index, albums []types.Album, favorites []types.PhotoRef) (Report, error) {
	if err := m.validate(); err != nil {
		return Report{}, err
	}
	if err := os.MkdirAll(m.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("creating output dir: %w", err)
	}

	var report Report
	taken := make(map[string]bool)

	for _, album := range albums {
		dir, display := m.albumDir(album, taken)
		ar, err := m.fill(dir, display, album.Photos, index)
		if err != nil {
			return report, err
		}
		report.Albums = append(report.Albums, ar)
		report.Found += ar.Found
		report.Missing += ar.Missing
	}

	if len(favorites) > 0 {
		dir := filepath.Join(m.OutputDir, FavoritesDirName)
		ar, err := m.fill(dir, FavoritesDirName, favorites, index)
		if err != nil {
			return report, err
		}
		report.Albums = append(report.Albums, ar)
		report.Found += ar.Found
		report.Missing += ar.Missing
	}

	return report, nil
}

func (m *Materializer) validate() error {
	switch m.Mode {
	case "", types.LinkModeSymlink, types.LinkModeCopy:
		return nil
	default:
		return fmt.Errorf("%w: %s", types.ErrLinkModeUnknown, m.Mode)
	}
}

// albumDir resolves the output directory for an album, sanitizing each folder
// part and disambiguating duplicate paths with a counter suffix. The chosen
// path is recorded in taken so a re-run over the same album list is
// deterministic.
func (m *Materializer) albumDir(album types.Album, taken map[string]bool) (dir, display string) {
	parts := []string{}
	if album.FolderPath != "" {
		for _, p := range strings.Split(album.FolderPath, "/") {
			parts = append(parts, sanitizeName(p))
		}
	}
	parts = append(parts, sanitizeName(album.Name))
	rel := filepath.Join(parts...)

	if taken[rel] {
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s (%d)", rel, n)
			if !taken[candidate] {
				rel = candidate
				break
			}
		}
	}
	taken[rel] = true

	return filepath.Join(m.OutputDir, rel), filepath.ToSlash(rel)
}

// fill creates dir and places every resolvable photo inside it.
func (m *Materializer) fill(dir, display string, photos []types.PhotoRef, index *Index) (AlbumReport, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return AlbumReport{}, fmt.Errorf("creating album dir %s: %w", dir, err)
	}

	ar := AlbumReport{Album: display}
	for _, photo := range photos {
		if photo.OriginalFilename == "" {
			ar.Missing++
			continue
		}
		src, ok := index.Lookup(photo.OriginalFilename)
		if !ok {
			m.Log.Debugw("photo not in backup", "album", display, "filename", photo.OriginalFilename)
			ar.Missing++
			continue
		}

		dst := filepath.Join(dir, photo.OriginalFilename)
		if err := m.place(src, dst); err != nil {
			m.Log.Warnw("placing photo failed", "album", display, "filename", photo.OriginalFilename, "error", err)
			ar.Missing++
			continue
		}
		ar.Found++
	}
	return ar, nil
}

// place makes dst point at (or hold a copy of) src. Re-running is idempotent:
// a symlink already pointing at src is kept, a wrong one is replaced, and an
// existing copy is left alone.
func (m *Materializer) place(src, dst string) error {
	if m.Mode == types.LinkModeCopy {
		if _, err := os.Stat(dst); err == nil {
			return nil
		}
		return m.copyFile(src, dst)
	}

	if fi, err := os.Lstat(dst); err == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			if target, err := os.Readlink(dst); err == nil && target == src {
				return nil
			}
		}
		// Wrong target or a stray file; replace it.
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("removing stale entry: %w", err)
		}
	}
	return os.Symlink(src, dst)
}

// copyFile copies bytes from src to dst, then optionally stamps the copy's
// mtime from the photo's EXIF DateTime. Photos without usable EXIF keep the
// copy time.
func (m *Materializer) copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if m.StampTimes {
		m.stampFromEXIF(dst)
	}
	return nil
}

// stampFromEXIF sets the file's atime/mtime to the EXIF DateTime, when present.
func (m *Materializer) stampFromEXIF(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := exif.Decode(f)
	if err != nil {
		return
	}
	taken, err := data.DateTime()
	if err != nil {
		return
	}
	if err := os.Chtimes(path, taken, taken); err != nil {
		m.Log.Debugw("stamping copy time failed", "path", path, "error", err)
	}
}
