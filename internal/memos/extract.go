package memos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/mtreskin/keepsake/pkg/types"
)

// Extractor copies recordings out of the Voice Memos container into OutputDir,
// mirroring the folder hierarchy and restoring original timestamps. One linear
// pass; each recording succeeds or is skipped independently.
type Extractor struct {
	RecordingsDir string // the container holding the audio files
	OutputDir     string
	Log           *zap.SugaredLogger
}

// Report aggregates an extraction run.
type Report struct {
	Extracted int
	Skipped   int
}

// invalidFilenameChars are replaced with '_' in labels and folder names.
const invalidFilenameChars = `<>:"/\|?*`

// sanitizeLabel strips characters that cannot appear in filenames and trims
// surrounding whitespace.
func sanitizeLabel(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(invalidFilenameChars, r) || unicode.IsControl(r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Run extracts every recording. The output directory must be known before the
// call; a missing source audio file is logged and skipped, never fatal.
func (e *Extractor) Run(folders []types.RecordingFolder, recordings []types.Recording) (Report, error) {
	if e.OutputDir == "" {
		return Report{}, types.ErrOutputDirMissing
	}
	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("creating output dir: %w", err)
	}

	folderNames := make(map[int64]string, len(folders))
	for _, f := range folders {
		folderNames[f.FolderID] = f.Name
	}

	var report Report
	for _, rec := range recordings {
		source := filepath.Join(e.RecordingsDir, rec.Path)
		if _, err := os.Stat(source); err != nil {
			e.Log.Warnw("source audio not found, skipping", "path", source, "recording", rec.RecordingID)
			report.Skipped++
			continue
		}

		destDir := e.OutputDir
		if name, ok := folderNames[rec.FolderID]; ok && rec.FolderID != 0 && name != "" {
			destDir = filepath.Join(e.OutputDir, sanitizeLabel(name))
			if err := os.MkdirAll(destDir, 0o755); err != nil {
				return report, fmt.Errorf("creating folder dir %s: %w", destDir, err)
			}
		}

		dest := uniqueDest(destDir, e.fileName(rec))
		if err := copyAudio(source, dest); err != nil {
			e.Log.Warnw("copying recording failed, skipping", "source", source, "error", err)
			report.Skipped++
			continue
		}

		// Restore the original recording time over the copy's "now" mtime.
		if !rec.RecordedAt.IsZero() {
			if err := os.Chtimes(dest, rec.RecordedAt, rec.RecordedAt); err != nil {
				e.Log.Debugw("setting recording time failed", "path", dest, "error", err)
			}
		}

		e.Log.Debugw("extracted recording", "dest", dest)
		report.Extracted++
	}

	return report, nil
}

// fileName names the output copy after the display label, falling back to a
// deterministic row-id name so unlabeled recordings never collide silently.
func (e *Extractor) fileName(rec types.Recording) string {
	if label := sanitizeLabel(rec.Label); label != "" {
		return label + ".m4a"
	}
	return fmt.Sprintf("recording-%d.m4a", rec.RecordingID)
}

// uniqueDest appends _1, _2, ... before the extension until the path is free.
func uniqueDest(dir, name string) string {
	dest := filepath.Join(dir, name)
	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return dest
		}
		dest = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}

// copyAudio copies the audio bytes to dest.
func copyAudio(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
