package types

// Link modes for album materialization.
const (
	LinkModeSymlink = "symlink"
	LinkModeCopy    = "copy"
)

// knownLinkModes is the set of modes Validate accepts.
var knownLinkModes = map[string]bool{
	LinkModeSymlink: true,
	LinkModeCopy:    true,
}

// Config holds the resolved source locations and projection options for a
// keepsake run. Paths are absolute by the time a Config is built; resolution
// precedence (flag > config file > environment > platform default) lives in
// internal/paths and the CLI layer.
type Config struct {
	// PhotosLibrary is the path to the Photos.app library bundle.
	PhotosLibrary string `json:"photos_library" yaml:"photos_library"`

	// BackupDir is the flat directory of photos produced by icloudpd.
	BackupDir string `json:"backup_dir" yaml:"backup_dir"`

	// MemosDir is the Voice Memos recordings container, which holds both
	// the audio files and CloudRecordings.db.
	MemosDir string `json:"memos_dir" yaml:"memos_dir"`

	// LinkMode selects symlink (default) or copy materialization.
	LinkMode string `json:"link_mode" yaml:"link_mode"`
}

// Validate checks that the Config is well-formed. An empty LinkMode is valid
// and means symlink.
func (c Config) Validate() error {
	if c.LinkMode != "" && !knownLinkModes[c.LinkMode] {
		return ErrLinkModeUnknown
	}
	return nil
}
