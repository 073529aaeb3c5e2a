// Config loading for the keepsake CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mtreskin/keepsake/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyPhotosLibrary = "photos_library"
	cfgKeyBackupDir     = "backup_dir"
	cfgKeyMemosDir      = "memos_dir"
	cfgKeyLinkMode      = "link_mode"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Keepsake configuration.
# Every value is optional; flags and KEEPSAKE_* environment variables
# override it, and unset values fall back to the macOS defaults.

# Photos.app library bundle
# photos_library: ~/Pictures/Photos Library.photoslibrary

# Flat icloudpd download directory
# backup_dir: ~/icloud-photos-backup

# Voice Memos recordings container
# memos_dir: ~/Library/Group Containers/group.com.apple.VoiceMemos.shared/Recordings

# Album materialization: symlink or copy
# link_mode: symlink
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > KEEPSAKE_CONFIG_DIR env > platform
// default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
