// Memos command group: extract Voice Memos recordings.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtreskin/keepsake/internal/memos"
	"github.com/mtreskin/keepsake/internal/paths"
)

var flagMemosDir string

var memosCmd = &cobra.Command{
	Use:   "memos",
	Short: "Extract Voice Memos recordings",
}

var memosExtractCmd = &cobra.Command{
	Use:   "extract <output-dir>",
	Short: "Copy recordings out with readable names and original timestamps",
	Long: `Extract reads the CloudRecordings sync database (read-only), copies every
live recording into <output-dir> mirroring the Voice Memos folder structure,
names each copy after its display label (or a row-id fallback), and sets the
copy's modification time to the original recording timestamp.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outputDir := args[0]

		memosDir, err := resolveMemosDir(flagMemosDir)
		if err != nil {
			fail("extract memos", err)
		}

		db, err := memos.Open(paths.MemosDB(memosDir))
		if err != nil {
			fail("extract memos", err)
		}
		defer db.Close()

		folders, err := db.Folders()
		if err != nil {
			fail("extract memos", err)
		}
		recordings, err := db.Recordings()
		if err != nil {
			fail("extract memos", err)
		}

		fmt.Printf("Found %d voice memos in %d folders\n", len(recordings), len(folders))

		e := &memos.Extractor{
			RecordingsDir: memosDir,
			OutputDir:     outputDir,
			Log:           log,
		}
		report, err := e.Run(folders, recordings)
		if err != nil {
			fail("extract memos", err)
		}

		fmt.Printf("Extracted %d voice memos to: %s", report.Extracted, outputDir)
		if report.Skipped > 0 {
			fmt.Printf(" (%d skipped)", report.Skipped)
		}
		fmt.Println()
	},
}

func init() {
	memosCmd.PersistentFlags().StringVar(&flagMemosDir, "memos-dir", "",
		"Voice Memos recordings container (default: the shared group container)")

	memosCmd.AddCommand(memosExtractCmd)
}
