// Package memos reads Voice Memos recordings from the CloudRecordings sync
// database and extracts them into a mirrored folder tree with their original
// timestamps. The database is opened read-only; Voice Memos owns it.
package memos

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mtreskin/keepsake/pkg/types"
)

// appleEpochOffset converts Apple's Cocoa reference date (2001-01-01 UTC)
// to the Unix epoch.
const appleEpochOffset = 978307200

const foldersQuery = `SELECT Z_PK, ZENCRYPTEDNAME FROM ZFOLDER`

// recordingsQuery skips evicted (Recently Deleted) rows and ghost recordings
// with no backing file.
const recordingsQuery = `
SELECT Z_PK, ZPATH, ZCUSTOMLABELFORSORTING, ZDATE, ZFOLDER
FROM ZCLOUDRECORDING
WHERE ZEVICTIONDATE IS NULL AND ZPATH IS NOT NULL AND ZPATH != ''
ORDER BY Z_PK`

// DB is a read-only handle on a CloudRecordings.db database.
type DB struct {
	path string
	db   *sql.DB
}

// Open opens the sync database read-only. Returns types.ErrDatabaseMissing if
// the file does not exist, which usually means Voice Memos iCloud sync is not
// enabled on this machine.
func Open(dbPath string) (*DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrDatabaseMissing, dbPath)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDataAccess, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", types.ErrDataAccess, err)
	}

	return &DB{path: dbPath, db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Folders returns all user-created recording folders.
func (d *DB) Folders() ([]types.RecordingFolder, error) {
	rows, err := d.db.Query(foldersQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: querying folders: %v", types.ErrDataAccess, err)
	}
	defer rows.Close()

	var folders []types.RecordingFolder
	for rows.Next() {
		var f types.RecordingFolder
		var name sql.NullString
		if err := rows.Scan(&f.FolderID, &name); err != nil {
			return nil, fmt.Errorf("%w: scanning folder: %v", types.ErrDataAccess, err)
		}
		f.Name = name.String
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading folders: %v", types.ErrDataAccess, err)
	}
	return folders, nil
}

// Recordings returns all live recordings with their display labels, folder
// membership, and original creation timestamps.
func (d *DB) Recordings() ([]types.Recording, error) {
	rows, err := d.db.Query(recordingsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: querying recordings: %v", types.ErrDataAccess, err)
	}
	defer rows.Close()

	var recordings []types.Recording
	for rows.Next() {
		var (
			rec      types.Recording
			label    sql.NullString
			date     sql.NullFloat64
			folderID sql.NullInt64
		)
		if err := rows.Scan(&rec.RecordingID, &rec.Path, &label, &date, &folderID); err != nil {
			return nil, fmt.Errorf("%w: scanning recording: %v", types.ErrDataAccess, err)
		}
		rec.Label = label.String
		rec.FolderID = folderID.Int64
		if date.Valid {
			rec.RecordedAt = appleTime(date.Float64)
		}
		recordings = append(recordings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading recordings: %v", types.ErrDataAccess, err)
	}
	return recordings, nil
}

// appleTime converts seconds since the Cocoa reference date to a time.Time.
func appleTime(seconds float64) time.Time {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec)+appleEpochOffset, int64(frac*float64(time.Second))).UTC()
}
