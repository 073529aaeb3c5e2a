package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/keepsake", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "keepsake"), got)
	})
}

func TestDefaultSourceLocations(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("photos library under ~/Pictures", func(t *testing.T) {
		got, err := DefaultPhotosLibrary()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "Pictures", "Photos Library.photoslibrary"), got)
	})

	t.Run("backup dir under home", func(t *testing.T) {
		got, err := DefaultBackupDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "icloud-photos-backup"), got)
	})

	t.Run("memos dir in the shared group container", func(t *testing.T) {
		got, err := DefaultMemosDir()
		require.NoError(t, err)
		assert.Contains(t, got, "group.com.apple.VoiceMemos.shared")
	})
}

func TestDatabasePaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/lib", "database", "Photos.sqlite"), PhotosDB("/lib"))
	assert.Equal(t, filepath.Join("/memos", "CloudRecordings.db"), MemosDB("/memos"))
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{
			name:    "flag wins over env",
			flag:    "/explicit/config",
			envVal:  "/env/config",
			wantSub: "/explicit/config",
		},
		{
			name:    "env wins when flag empty",
			flag:    "",
			envVal:  "/env/config",
			wantSub: "/env/config",
		},
		{
			name:    "platform default when both empty",
			flag:    "",
			envVal:  "",
			wantSub: "keepsake",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolve(t *testing.T) {
	fallback := func() (string, error) { return "/fallback", nil }

	tests := []struct {
		name        string
		flag        string
		configValue string
		envVal      string
		want        string
	}{
		{
			name:        "flag wins over all",
			flag:        "/flag/backup",
			configValue: "/config/backup",
			envVal:      "/env/backup",
			want:        "/flag/backup",
		},
		{
			name:        "config value wins over env",
			flag:        "",
			configValue: "/config/backup",
			envVal:      "/env/backup",
			want:        "/config/backup",
		},
		{
			name:        "env wins when flag and config empty",
			flag:        "",
			configValue: "",
			envVal:      "/env/backup",
			want:        "/env/backup",
		},
		{
			name:        "fallback when all empty",
			flag:        "",
			configValue: "",
			envVal:      "",
			want:        "/fallback",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvBackupDir, tt.envVal)
			got, err := Resolve(tt.flag, tt.configValue, EnvBackupDir, fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_AbsolutePath(t *testing.T) {
	fallback := func() (string, error) { return "/fallback", nil }

	t.Run("relative flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvBackupDir, "")
		got, err := Resolve("relative/path", "", EnvBackupDir, fallback)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative config value becomes absolute", func(t *testing.T) {
		t.Setenv(EnvBackupDir, "")
		got, err := Resolve("", "relative/config", EnvBackupDir, fallback)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}
