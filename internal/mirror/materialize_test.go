package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mtreskin/keepsake/pkg/types"
)

// newMaterializer builds a Materializer over a populated source dir and a
// fresh output dir, returning it with its index.
func newMaterializer(t *testing.T, mode string) (*Materializer, *Index) {
	t.Helper()

	source := t.TempDir()
	writeFile(t, source, "2023/IMG_0001.JPG", "photo-one")
	writeFile(t, source, "2023/IMG_0002.JPG", "photo-two")

	idx, err := BuildIndex(source, zap.NewNop().Sugar())
	require.NoError(t, err)

	return &Materializer{
		OutputDir: t.TempDir(),
		SourceDir: source,
		Mode:      mode,
		Log:       zap.NewNop().Sugar(),
	}, idx
}

func twoAlbums() []types.Album {
	return []types.Album{
		{
			AlbumID: 1,
			Name:    "Italy",
			Photos: []types.PhotoRef{
				{Filename: "AAAA.heic", OriginalFilename: "IMG_0001.JPG"},
				{Filename: "BBBB.jpg", OriginalFilename: "IMG_0002.JPG"},
				{Filename: "CCCC.jpg", OriginalFilename: "IMG_MISSING.JPG"},
			},
		},
		{AlbumID: 2, Name: "Empty"},
	}
}

func TestMaterializeSymlinks(t *testing.T) {
	m, idx := newMaterializer(t, types.LinkModeSymlink)

	report, err := m.Run(idx, twoAlbums(), nil)
	require.NoError(t, err)

	// Three references, two matching files: two links and one miss.
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 1, report.Missing)
	require.Len(t, report.Albums, 2)
	assert.Equal(t, "Italy", report.Albums[0].Album)
	assert.Equal(t, 2, report.Albums[0].Found)
	assert.Equal(t, 1, report.Albums[0].Missing)

	entries, err := os.ReadDir(filepath.Join(m.OutputDir, "Italy"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	link := filepath.Join(m.OutputDir, "Italy", "IMG_0001.JPG")
	fi, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, fi.Mode()&os.ModeSymlink)

	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.SourceDir, "2023", "IMG_0001.JPG"), target)

	t.Run("empty album produces an empty directory", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(m.OutputDir, "Empty"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestMaterializeIsIdempotent(t *testing.T) {
	m, idx := newMaterializer(t, types.LinkModeSymlink)

	first, err := m.Run(idx, twoAlbums(), nil)
	require.NoError(t, err)
	second, err := m.Run(idx, twoAlbums(), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Join(m.OutputDir, "Italy"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMaterializeReplacesStaleLink(t *testing.T) {
	m, idx := newMaterializer(t, types.LinkModeSymlink)

	albumDir := filepath.Join(m.OutputDir, "Italy")
	require.NoError(t, os.MkdirAll(albumDir, 0o755))
	stale := filepath.Join(albumDir, "IMG_0001.JPG")
	require.NoError(t, os.Symlink("/somewhere/else", stale))

	_, err := m.Run(idx, twoAlbums(), nil)
	require.NoError(t, err)

	target, err := os.Readlink(stale)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.SourceDir, "2023", "IMG_0001.JPG"), target)
}

func TestMaterializeCopyMode(t *testing.T) {
	m, idx := newMaterializer(t, types.LinkModeCopy)

	report, err := m.Run(idx, twoAlbums(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Found)

	copied := filepath.Join(m.OutputDir, "Italy", "IMG_0001.JPG")
	fi, err := os.Lstat(copied)
	require.NoError(t, err)
	assert.True(t, fi.Mode().IsRegular())

	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "photo-one", string(data))

	t.Run("existing copy is left in place", func(t *testing.T) {
		require.NoError(t, os.WriteFile(copied, []byte("edited"), 0o644))
		_, err := m.Run(idx, twoAlbums(), nil)
		require.NoError(t, err)

		data, err := os.ReadFile(copied)
		require.NoError(t, err)
		assert.Equal(t, "edited", string(data))
	})
}

func TestMaterializeFavorites(t *testing.T) {
	m, idx := newMaterializer(t, types.LinkModeSymlink)

	favorites := []types.PhotoRef{{Filename: "AAAA.heic", OriginalFilename: "IMG_0001.JPG"}}
	report, err := m.Run(idx, nil, favorites)
	require.NoError(t, err)

	require.Len(t, report.Albums, 1)
	assert.Equal(t, FavoritesDirName, report.Albums[0].Album)
	assert.Equal(t, 1, report.Found)

	_, err = os.Lstat(filepath.Join(m.OutputDir, FavoritesDirName, "IMG_0001.JPG"))
	assert.NoError(t, err)
}

func TestMaterializeDuplicateAlbumNames(t *testing.T) {
	m, idx := newMaterializer(t, types.LinkModeSymlink)

	albums := []types.Album{
		{AlbumID: 1, Name: "Trip", Photos: []types.PhotoRef{{OriginalFilename: "IMG_0001.JPG"}}},
		{AlbumID: 2, Name: "Trip", Photos: []types.PhotoRef{{OriginalFilename: "IMG_0002.JPG"}}},
	}
	report, err := m.Run(idx, albums, nil)
	require.NoError(t, err)

	require.Len(t, report.Albums, 2)
	assert.Equal(t, "Trip", report.Albums[0].Album)
	assert.Equal(t, "Trip (2)", report.Albums[1].Album)

	_, err = os.Lstat(filepath.Join(m.OutputDir, "Trip", "IMG_0001.JPG"))
	assert.NoError(t, err)
	_, err = os.Lstat(filepath.Join(m.OutputDir, "Trip (2)", "IMG_0002.JPG"))
	assert.NoError(t, err)
}

func TestMaterializeUnknownMode(t *testing.T) {
	m, idx := newMaterializer(t, "hardlink")
	_, err := m.Run(idx, nil, nil)
	require.ErrorIs(t, err, types.ErrLinkModeUnknown)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vacation 2023", "Vacation 2023"},
		{"a/b:c", "a_b_c"},
		{"semi-precious_stones", "semi-precious_stones"},
		{"héllo", "héllo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), "input %q", tt.in)
	}
}
