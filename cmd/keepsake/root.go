// Root command for the keepsake CLI.
package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes: 0 success, 1 user error, 2 system error. Per-item misses during
// materialization or extraction do not affect the exit code.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagVerbose   bool
	flagJSON      bool
)

// cfg holds the loaded config.yaml values; log is the process logger.
// Both are set by PersistentPreRunE before any subcommand runs.
var (
	cfg *viper.Viper
	log *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:     "keepsake",
	Short:   "Keepsake backs up iCloud photos albums and voice memos",
	Long: `Keepsake is a personal backup toolkit for macOS iCloud data.

It reconstructs Photos.app album structure on top of a flat icloudpd backup
directory, extracts Voice Memos recordings with readable names and original
timestamps, and wraps the icloudpd downloader in a retry loop.

Both source databases are opened read-only; keepsake never writes to them.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err = loadConfig(configDir)
		if err != nil {
			return err
		}

		log = newLogger(flagVerbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(albumsCmd)
	rootCmd.AddCommand(memosCmd)
	rootCmd.AddCommand(fetchCmd)
}

// newLogger builds the stderr logger. Default level is warn so normal runs
// stay quiet; --verbose lowers it to debug.
func newLogger(verbose bool) *zap.SugaredLogger {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	zl, err := zcfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return zl.Sugar()
}
