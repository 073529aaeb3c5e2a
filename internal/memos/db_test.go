package memos

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtreskin/keepsake/pkg/types"
)

// fixtureSchema is the minimal slice of CloudRecordings.db the reader touches.
const fixtureSchema = `
CREATE TABLE ZFOLDER (
	Z_PK INTEGER PRIMARY KEY,
	ZENCRYPTEDNAME TEXT
);
CREATE TABLE ZCLOUDRECORDING (
	Z_PK INTEGER PRIMARY KEY,
	ZPATH TEXT,
	ZCUSTOMLABELFORSORTING TEXT,
	ZDATE REAL,
	ZFOLDER INTEGER,
	ZEVICTIONDATE REAL
);
`

func newFixtureDB(t *testing.T, populate func(t *testing.T, db *sql.DB)) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "CloudRecordings.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)

	if populate != nil {
		populate(t, db)
	}
	return path
}

func exec(t *testing.T, db *sql.DB, stmt string, args ...any) {
	t.Helper()
	_, err := db.Exec(stmt, args...)
	require.NoError(t, err)
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "CloudRecordings.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDatabaseMissing))
}

func TestFolders(t *testing.T) {
	path := newFixtureDB(t, func(t *testing.T, db *sql.DB) {
		exec(t, db, `INSERT INTO ZFOLDER (Z_PK, ZENCRYPTEDNAME) VALUES (1, 'Interviews')`)
		exec(t, db, `INSERT INTO ZFOLDER (Z_PK, ZENCRYPTEDNAME) VALUES (2, 'Ideas')`)
	})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	folders, err := d.Folders()
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, int64(1), folders[0].FolderID)
	assert.Equal(t, "Interviews", folders[0].Name)
}

func TestRecordings(t *testing.T) {
	path := newFixtureDB(t, func(t *testing.T, db *sql.DB) {
		// ZDATE 0 is the Cocoa reference date, 2001-01-01T00:00:00Z.
		exec(t, db, `INSERT INTO ZCLOUDRECORDING (Z_PK, ZPATH, ZCUSTOMLABELFORSORTING, ZDATE, ZFOLDER) VALUES (1, '20230101 120000.m4a', 'Standup notes', 694267200.5, 1)`)
		exec(t, db, `INSERT INTO ZCLOUDRECORDING (Z_PK, ZPATH, ZCUSTOMLABELFORSORTING, ZDATE) VALUES (2, '20230102 080000.m4a', NULL, 0)`)

		// Evicted and ghost rows must not appear.
		exec(t, db, `INSERT INTO ZCLOUDRECORDING (Z_PK, ZPATH, ZEVICTIONDATE) VALUES (3, 'deleted.m4a', 1000)`)
		exec(t, db, `INSERT INTO ZCLOUDRECORDING (Z_PK, ZPATH) VALUES (4, '')`)
		exec(t, db, `INSERT INTO ZCLOUDRECORDING (Z_PK) VALUES (5)`)
	})

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	recordings, err := d.Recordings()
	require.NoError(t, err)
	require.Len(t, recordings, 2)

	first := recordings[0]
	assert.Equal(t, int64(1), first.RecordingID)
	assert.Equal(t, "Standup notes", first.Label)
	assert.Equal(t, "20230101 120000.m4a", first.Path)
	assert.Equal(t, int64(1), first.FolderID)
	// 694267200 seconds past the Apple epoch is 2023-01-01T12:00:00Z.
	assert.Equal(t, time.Date(2023, 1, 1, 12, 0, 0, 500000000, time.UTC), first.RecordedAt)

	second := recordings[1]
	assert.Equal(t, "", second.Label)
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), second.RecordedAt)
}

func TestAppleTime(t *testing.T) {
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), appleTime(0))
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 1, 0, time.UTC), appleTime(1))
}
