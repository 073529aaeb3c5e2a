package types

import "time"

// RecordingFolder is a user-created folder in Voice Memos.
type RecordingFolder struct {
	FolderID int64
	Name     string
}

// Recording is one voice memo read from the CloudRecordings sync database.
// Recordings are a read-only snapshot taken at run time.
type Recording struct {
	RecordingID int64     // database primary key, used as the fallback label
	Label       string    // display name, may be empty
	Path        string    // audio file path relative to the recordings container
	FolderID    int64     // owning folder, 0 when at top level
	RecordedAt  time.Time // original creation timestamp
}
