package types

// PhotoRef correlates a database row with a file in the flat icloudpd backup.
// Filename is the UUID-style name the library stores on disk; OriginalFilename
// is the user-visible name icloudpd downloads under, and is the join key for
// materialization. The join is best-effort: a reference with no matching file
// in the backup is a non-fatal miss.
type PhotoRef struct {
	Filename         string // on-disk name inside the Photos library
	UUID             string // asset UUID
	RelativePath     string // directory/filename inside the library originals
	OriginalFilename string // user-visible name, matched against the backup
}

// Album is a user-created album read from the Photos database. Albums are a
// read-only snapshot, reconstructed fresh on every run and never written back.
type Album struct {
	AlbumID       int64      // database primary key
	Name          string     // album title, not guaranteed unique
	ExpectedCount int64      // member count cached by Photos.app
	FolderPath    string     // slash-joined parent folder titles, empty at top level
	Photos        []PhotoRef // members, sorted by filename
}

// DisplayPath returns the folder-qualified album path shown to the user.
func (a Album) DisplayPath() string {
	if a.FolderPath == "" {
		return a.Name
	}
	return a.FolderPath + "/" + a.Name
}
