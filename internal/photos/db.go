// Package photos reads album structure from a Photos.app library database.
// The database is opened read-only: Photos.app owns it and may be writing
// while we read.
package photos

import (
	"database/sql"
	"fmt"
	"os"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/mtreskin/keepsake/pkg/types"
)

// Album kinds in ZGENERICALBUM: 2 is a user-created album, 4000 is a folder
// that groups albums.

const foldersQuery = `
SELECT Z_PK, ZTITLE, ZPARENTFOLDER
FROM ZGENERICALBUM
WHERE ZKIND = 4000 AND ZTITLE IS NOT NULL`

const albumsQuery = `
SELECT
	alb.Z_PK,
	alb.ZTITLE,
	alb.ZCACHEDCOUNT,
	alb.ZPARENTFOLDER,
	asset.ZDIRECTORY,
	asset.ZFILENAME,
	asset.ZUUID,
	attr.ZORIGINALFILENAME
FROM ZGENERICALBUM alb
LEFT JOIN Z_32ASSETS j ON j.Z_32ALBUMS = alb.Z_PK
LEFT JOIN ZASSET asset ON asset.Z_PK = j.Z_3ASSETS
LEFT JOIN ZADDITIONALASSETATTRIBUTES attr ON attr.ZASSET = asset.Z_PK
WHERE alb.ZTITLE IS NOT NULL AND alb.ZKIND = 2
ORDER BY alb.ZTITLE, alb.Z_PK, asset.ZFILENAME`

const favoritesQuery = `
SELECT
	asset.ZFILENAME,
	asset.ZUUID,
	asset.ZDIRECTORY,
	attr.ZORIGINALFILENAME
FROM ZASSET asset
LEFT JOIN ZADDITIONALASSETATTRIBUTES attr ON attr.ZASSET = asset.Z_PK
WHERE asset.ZFAVORITE = 1
ORDER BY asset.ZFILENAME`

// Library is a read-only handle on a Photos.sqlite database.
type Library struct {
	path string
	db   *sql.DB
}

// Open opens the Photos database at dbPath read-only. Returns
// types.ErrDatabaseMissing if the file does not exist and types.ErrDataAccess
// if the database cannot be read.
func Open(dbPath string) (*Library, error) {
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

	return &Library{path: dbPath, db: db}, nil
}

// Close releases the database handle.
func (l *Library) Close() error {
	return l.db.Close()
}

// folder is one ZKIND=4000 row, used to resolve album folder paths.
type folder struct {
	title  string
	parent sql.NullInt64
}

// folders loads the folder hierarchy keyed by primary key.
func (l *Library) folders() (map[int64]folder, error) {
	rows, err := l.db.Query(foldersQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: querying folders: %v", types.ErrDataAccess, err)
	}
	defer rows.Close()

	folders := make(map[int64]folder)
	for rows.Next() {
		var pk int64
		var f folder
		if err := rows.Scan(&pk, &f.title, &f.parent); err != nil {
			return nil, fmt.Errorf("%w: scanning folder: %v", types.ErrDataAccess, err)
		}
		folders[pk] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading folders: %v", types.ErrDataAccess, err)
	}
	return folders, nil
}

// folderPath walks the parent chain and returns the slash-joined folder titles
// above an album, outermost first. An unknown or absent parent yields "".
func folderPath(folders map[int64]folder, parent sql.NullInt64) string {
	var parts []string
	seen := make(map[int64]bool)

	current := parent
	for current.Valid {
		if seen[current.Int64] {
			break // defend against a corrupted parent cycle
		}
		seen[current.Int64] = true

		f, ok := folders[current.Int64]
		if !ok {
			break
		}
		parts = append([]string{f.title}, parts...)
		current = f.parent
	}

	if len(parts) == 0 {
		return ""
	}
	path := parts[0]
	for _, p := range parts[1:] {
		path += "/" + p
	}
	return path
}

// Albums returns all user-created albums with their member photo references.
// Albums with no members are included with an empty Photos slice. Two albums
// sharing a title stay separate entries; disambiguation is the materializer's
// concern.
func (l *Library) Albums() ([]types.Album, error) {
	folders, err := l.folders()
	if err != nil {
		return nil, err
	}

	rows, err := l.db.Query(albumsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: querying albums: %v", types.ErrDataAccess, err)
	}
	defer rows.Close()

	byID := make(map[int64]*types.Album)
	var order []int64

	for rows.Next() {
		var (
			albumID      int64
			title        string
			cachedCount  sql.NullInt64
			parentFolder sql.NullInt64
			directory    sql.NullString
			filename     sql.NullString
			assetUUID    sql.NullString
			originalName sql.NullString
		)
		if err := rows.Scan(&albumID, &title, &cachedCount, &parentFolder,
			&directory, &filename, &assetUUID, &originalName); err != nil {
			return nil, fmt.Errorf("%w: scanning album row: %v", types.ErrDataAccess, err)
		}

		album, ok := byID[albumID]
		if !ok {
			album = &types.Album{
				AlbumID:       albumID,
				Name:          title,
				ExpectedCount: cachedCount.Int64,
				FolderPath:    folderPath(folders, parentFolder),
			}
			byID[albumID] = album
			order = append(order, albumID)
		}

		// A NULL filename means the album has no members; the LEFT JOIN
		// still yields one row for it.
		if !filename.Valid || filename.String == "" {
			continue
		}

		relative := filename.String
		if directory.Valid && directory.String != "" {
			relative = directory.String + "/" + filename.String
		}
		album.Photos = append(album.Photos, types.PhotoRef{
			Filename:         filename.String,
			UUID:             assetUUID.String,
			RelativePath:     relative,
			OriginalFilename: originalName.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading albums: %v", types.ErrDataAccess, err)
	}

	albums := make([]types.Album, 0, len(order))
	for _, id := range order {
		albums = append(albums, *byID[id])
	}
	sort.SliceStable(albums, func(i, j int) bool {
		if albums[i].Name != albums[j].Name {
			return albums[i].Name < albums[j].Name
		}
		return albums[i].AlbumID < albums[j].AlbumID
	})
	return albums, nil
}

// Favorites returns references for every asset marked as a favorite.
func (l *Library) Favorites() ([]types.PhotoRef, error) {
	rows, err := l.db.Query(favoritesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: querying favorites: %v", types.ErrDataAccess, err)
	}
	defer rows.Close()

	var favorites []types.PhotoRef
	for rows.Next() {
		var filename, assetUUID, directory, originalName sql.NullString
		if err := rows.Scan(&filename, &assetUUID, &directory, &originalName); err != nil {
			return nil, fmt.Errorf("%w: scanning favorite: %v", types.ErrDataAccess, err)
		}
		if !filename.Valid || filename.String == "" {
			continue
		}

		relative := filename.String
		if directory.Valid && directory.String != "" {
			relative = directory.String + "/" + filename.String
		}
		favorites = append(favorites, types.PhotoRef{
			Filename:         filename.String,
			UUID:             assetUUID.String,
			RelativePath:     relative,
			OriginalFilename: originalName.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading favorites: %v", types.ErrDataAccess, err)
	}
	return favorites, nil
}
