package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mtreskin/keepsake/pkg/types"
)

// MappingPhoto pairs the library's on-disk name with the user-visible name
// used to find the file in the backup.
type MappingPhoto struct {
	UUIDFilename     string `json:"uuid_filename"`
	OriginalFilename string `json:"original_filename"`
}

// MappingAlbum is one album entry in the export document.
type MappingAlbum struct {
	PhotoCount    int            `json:"photo_count"`
	ExpectedCount int64          `json:"expected_count"`
	Folder        string         `json:"folder,omitempty"`
	Photos        []MappingPhoto `json:"photos"`
}

// MappingFavorites is the favorites block in the export document.
type MappingFavorites struct {
	PhotoCount int            `json:"photo_count"`
	Photos     []MappingPhoto `json:"photos"`
}

// Mapping is the serialized album-to-members document written by
// `keepsake albums export`. Reading it back yields the same structure.
type Mapping struct {
	ExportID       string                  `json:"export_id"`
	ExportedAt     time.Time               `json:"exported_at"`
	PhotosLibrary  string                  `json:"photos_library"`
	TotalAlbums    int                     `json:"total_albums"`
	TotalFavorites int                     `json:"total_favorites"`
	Albums         map[string]MappingAlbum `json:"albums"`
	Favorites      MappingFavorites        `json:"favorites"`
}

// newExportID generates a UUID v7 export identifier, falling back to v4.
func newExportID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewMapping builds the export document for the given snapshot. Albums are
// keyed by display path; two albums resolving to the same path get " (2)",
// " (3)" suffixes so no entry is silently overwritten.
func NewMapping(library string, albums []types.Album, favorites []types.PhotoRef) Mapping {
	m := Mapping{
		ExportID:       newExportID(),
		ExportedAt:     time.Now().UTC(),
		PhotosLibrary:  library,
		TotalAlbums:    len(albums),
		TotalFavorites: len(favorites),
		Albums:         make(map[string]MappingAlbum, len(albums)),
	}

	for _, album := range albums {
		key := album.DisplayPath()
		if _, taken := m.Albums[key]; taken {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s (%d)", key, n)
				if _, taken := m.Albums[candidate]; !taken {
					key = candidate
					break
				}
			}
		}
		m.Albums[key] = MappingAlbum{
			PhotoCount:    len(album.Photos),
			ExpectedCount: album.ExpectedCount,
			Folder:        album.FolderPath,
			Photos:        mappingPhotos(album.Photos),
		}
	}

	m.Favorites = MappingFavorites{
		PhotoCount: len(favorites),
		Photos:     mappingPhotos(favorites),
	}
	return m
}

func mappingPhotos(refs []types.PhotoRef) []MappingPhoto {
	photos := make([]MappingPhoto, 0, len(refs))
	for _, ref := range refs {
		photos = append(photos, MappingPhoto{
			UUIDFilename:     ref.Filename,
			OriginalFilename: ref.OriginalFilename,
		})
	}
	return photos
}

// WriteMapping serializes the mapping as indented JSON to path.
func WriteMapping(path string, m Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling mapping: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing mapping: %w", err)
	}
	return nil
}

// ReadMapping parses a mapping document written by WriteMapping.
func ReadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("reading mapping: %w", err)
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("parsing mapping: %w", err)
	}
	return m, nil
}
