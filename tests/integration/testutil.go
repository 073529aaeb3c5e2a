// Package integration provides CLI integration tests for keepsake.
package integration

import (
	"bytes"
	"database/sql"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

var (
	// keepsakeBin is the path to the built keepsake binary.
	keepsakeBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetKeepsakeBin sets the path to the keepsake binary (called from TestMain).
func SetKeepsakeBin(path string) {
	keepsakeBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config directory.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build keepsake: %v", buildErr)
	}
	if keepsakeBin == "" {
		t.Fatal("keepsake binary not built (keepsakeBin is empty)")
	}

	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: configDir,
	}
}

// CmdResult holds the result of a keepsake command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunKeepsake executes the keepsake CLI with the given arguments.
func (e *TestEnv) RunKeepsake(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir}, args...)
	cmd := exec.Command(keepsakeBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run keepsake: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunKeepsake executes the keepsake CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunKeepsake(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunKeepsake(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("keepsake %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// MakePhotosLibrary creates a Photos library bundle under the env's temp dir
// with one nested album, one plain album, and a favorite, and returns the
// bundle path.
func (e *TestEnv) MakePhotosLibrary() string {
	e.t.Helper()

	library := filepath.Join(e.TempDir, "Photos Library.photoslibrary")
	dbDir := filepath.Join(library, "database")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		e.t.Fatalf("failed to create library: %v", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dbDir, "Photos.sqlite"))
	if err != nil {
		e.t.Fatalf("failed to open fixture db: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE ZGENERICALBUM (Z_PK INTEGER PRIMARY KEY, ZTITLE TEXT, ZKIND INTEGER, ZCACHEDCOUNT INTEGER, ZPARENTFOLDER INTEGER)`,
		`CREATE TABLE ZASSET (Z_PK INTEGER PRIMARY KEY, ZDIRECTORY TEXT, ZFILENAME TEXT, ZUUID TEXT, ZFAVORITE INTEGER DEFAULT 0)`,
		`CREATE TABLE ZADDITIONALASSETATTRIBUTES (Z_PK INTEGER PRIMARY KEY, ZASSET INTEGER, ZORIGINALFILENAME TEXT)`,
		`CREATE TABLE Z_32ASSETS (Z_32ALBUMS INTEGER, Z_3ASSETS INTEGER)`,

		`INSERT INTO ZGENERICALBUM (Z_PK, ZTITLE, ZKIND, ZPARENTFOLDER) VALUES (10, 'Travel', 4000, NULL)`,
		`INSERT INTO ZGENERICALBUM (Z_PK, ZTITLE, ZKIND, ZCACHEDCOUNT, ZPARENTFOLDER) VALUES (1, 'Italy', 2, 2, 10)`,
		`INSERT INTO ZGENERICALBUM (Z_PK, ZTITLE, ZKIND, ZCACHEDCOUNT) VALUES (2, 'Pets', 2, 1)`,

		`INSERT INTO ZASSET (Z_PK, ZFILENAME, ZUUID) VALUES (100, 'AAAA.heic', 'uuid-a')`,
		`INSERT INTO ZASSET (Z_PK, ZFILENAME, ZUUID) VALUES (101, 'BBBB.jpg', 'uuid-b')`,
		`INSERT INTO ZASSET (Z_PK, ZFILENAME, ZUUID, ZFAVORITE) VALUES (102, 'CCCC.jpg', 'uuid-c', 1)`,

		`INSERT INTO ZADDITIONALASSETATTRIBUTES (ZASSET, ZORIGINALFILENAME) VALUES (100, 'IMG_0001.JPG')`,
		`INSERT INTO ZADDITIONALASSETATTRIBUTES (ZASSET, ZORIGINALFILENAME) VALUES (101, 'IMG_0002.JPG')`,
		`INSERT INTO ZADDITIONALASSETATTRIBUTES (ZASSET, ZORIGINALFILENAME) VALUES (102, 'IMG_0003.JPG')`,

		`INSERT INTO Z_32ASSETS (Z_32ALBUMS, Z_3ASSETS) VALUES (1, 100)`,
		`INSERT INTO Z_32ASSETS (Z_32ALBUMS, Z_3ASSETS) VALUES (1, 101)`,
		`INSERT INTO Z_32ASSETS (Z_32ALBUMS, Z_3ASSETS) VALUES (2, 102)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			e.t.Fatalf("fixture statement failed: %v\n%s", err, stmt)
		}
	}
	return library
}

// MakeBackupDir creates a flat backup directory holding the given filenames
// and returns its path.
func (e *TestEnv) MakeBackupDir(names ...string) string {
	e.t.Helper()

	backup := filepath.Join(e.TempDir, "backup")
	for _, name := range names {
		path := filepath.Join(backup, "2023", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			e.t.Fatalf("failed to create backup dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("photo:"+name), 0o644); err != nil {
			e.t.Fatalf("failed to write backup file: %v", err)
		}
	}
	return backup
}

// MakeMemosContainer creates a recordings container with a sync database
// holding one labeled and one unlabeled recording, and returns its path.
func (e *TestEnv) MakeMemosContainer() string {
	e.t.Helper()

	container := filepath.Join(e.TempDir, "Recordings")
	if err := os.MkdirAll(container, 0o755); err != nil {
		e.t.Fatalf("failed to create container: %v", err)
	}
	for _, name := range []string{"rec1.m4a", "rec2.m4a"} {
		if err := os.WriteFile(filepath.Join(container, name), []byte("audio:"+name), 0o644); err != nil {
			e.t.Fatalf("failed to write audio: %v", err)
		}
	}

	db, err := sql.Open("sqlite", filepath.Join(container, "CloudRecordings.db"))
	if err != nil {
		e.t.Fatalf("failed to open fixture db: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE ZFOLDER (Z_PK INTEGER PRIMARY KEY, ZENCRYPTEDNAME TEXT)`,
		`CREATE TABLE ZCLOUDRECORDING (Z_PK INTEGER PRIMARY KEY, ZPATH TEXT, ZCUSTOMLABELFORSORTING TEXT, ZDATE REAL, ZFOLDER INTEGER, ZEVICTIONDATE REAL)`,

		`INSERT INTO ZFOLDER (Z_PK, ZENCRYPTEDNAME) VALUES (1, 'Interviews')`,
		// 694267200 seconds past the Apple epoch is 2023-01-01T12:00:00Z.
		`INSERT INTO ZCLOUDRECORDING (Z_PK, ZPATH, ZCUSTOMLABELFORSORTING, ZDATE, ZFOLDER) VALUES (1, 'rec1.m4a', 'Standup notes', 694267200, 1)`,
		`INSERT INTO ZCLOUDRECORDING (Z_PK, ZPATH, ZDATE) VALUES (2, 'rec2.m4a', 694267200)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			e.t.Fatalf("fixture statement failed: %v\n%s", err, stmt)
		}
	}
	return container
}
