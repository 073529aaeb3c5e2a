// Materialize subcommand: project albums onto the filesystem as directories
// of symlinks or copies pointing into the icloudpd backup.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtreskin/keepsake/internal/mirror"
	"github.com/mtreskin/keepsake/pkg/types"
)

var (
	flagMaterializeOutput string
	flagMaterializeSource string
	flagMaterializeCopy   bool
	flagStampTimes        bool
)

var albumsMaterializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Create album folders of symlinks or copies",
	Long: `Materialize creates one directory per album under --output-dir and fills
it with symlinks (default) or copies (--copy) of the matching files from the
icloudpd backup. Photos with no matching file in the backup are skipped and
counted. Re-running over unchanged input is idempotent.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sourceDir, err := resolveBackupDir(flagMaterializeSource)
		if err != nil {
			fail("materialize albums", err)
		}

		library, albums, favorites, err := readLibrary()
		if err != nil {
			fail("materialize albums", err)
		}

		// The index doubles as the source precondition check; nothing is
		// written when the backup directory is absent.
		index, err := mirror.BuildIndex(sourceDir, log)
		if err != nil {
			fail("materialize albums", err)
		}

		mode := types.LinkModeSymlink
		if flagMaterializeCopy {
			mode = types.LinkModeCopy
		} else if cfg.GetString(cfgKeyLinkMode) != "" {
			mode = cfg.GetString(cfgKeyLinkMode)
		}

		m := &mirror.Materializer{
			OutputDir:  flagMaterializeOutput,
			SourceDir:  sourceDir,
			Mode:       mode,
			StampTimes: flagStampTimes,
			Log:        log,
		}

		fmt.Printf("Materializing albums from %s\n", library)
		fmt.Printf("Source: %s (%d files indexed)\n", sourceDir, index.Len())

		report, err := m.Run(index, albums, favorites)
		if err != nil {
			fail("materialize albums", err)
		}

		for _, ar := range report.Albums {
			fmt.Printf("  %s: %d/%d photos\n", ar.Album, ar.Found, ar.Found+ar.Missing)
		}
		fmt.Printf("\nTotal: %d found, %d missing\n", report.Found, report.Missing)
	},
}

func init() {
	albumsMaterializeCmd.Flags().StringVarP(&flagMaterializeOutput, "output-dir", "d", "", "output directory for album folders (required)")
	albumsMaterializeCmd.Flags().StringVarP(&flagMaterializeSource, "source-dir", "s", "", "icloudpd backup directory (default: ~/icloud-photos-backup)")
	albumsMaterializeCmd.Flags().BoolVar(&flagMaterializeCopy, "copy", false, "copy files instead of symlinking")
	albumsMaterializeCmd.Flags().BoolVar(&flagStampTimes, "stamp-times", false, "with --copy, set copy mtimes from EXIF DateTime")
	albumsMaterializeCmd.MarkFlagRequired("output-dir")
}
