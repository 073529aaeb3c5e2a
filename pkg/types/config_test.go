package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty link mode is valid",
			config:  Config{},
			wantErr: nil,
		},
		{
			name:    "symlink mode is valid",
			config:  Config{LinkMode: LinkModeSymlink},
			wantErr: nil,
		},
		{
			name:    "copy mode is valid",
			config:  Config{LinkMode: LinkModeCopy},
			wantErr: nil,
		},
		{
			name:    "hardlink mode returns ErrLinkModeUnknown",
			config:  Config{LinkMode: "hardlink"},
			wantErr: ErrLinkModeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAlbumDisplayPath(t *testing.T) {
	tests := []struct {
		name  string
		album Album
		want  string
	}{
		{
			name:  "top level album",
			album: Album{Name: "Vacation"},
			want:  "Vacation",
		},
		{
			name:  "nested album",
			album: Album{Name: "Italy", FolderPath: "Travel/2023"},
			want:  "Travel/2023/Italy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.album.DisplayPath(); got != tt.want {
				t.Fatalf("DisplayPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
