package types

import "errors"

// Standard errors. Fatal preconditions (missing database, missing source or
// output directory) surface as one of these; callers select exit codes with
// errors.Is. Per-item misses are not errors at all, they are counted in the
// run reports.
var (
	// ErrDatabaseMissing indicates the source database file does not exist.
	ErrDatabaseMissing = errors.New("source database not found")

	// ErrDataAccess wraps driver-level failures: the database is locked,
	// unreadable, or its schema is not the one we expect.
	ErrDataAccess = errors.New("database access failed")

	// ErrSourceDirMissing indicates the flat backup directory does not exist.
	ErrSourceDirMissing = errors.New("source directory not found")

	// ErrOutputDirMissing indicates no output directory was given.
	ErrOutputDirMissing = errors.New("output directory required")

	// ErrLinkModeUnknown indicates a link mode other than symlink or copy.
	ErrLinkModeUnknown = errors.New("unknown link mode")
)
