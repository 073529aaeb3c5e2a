// Export subcommand: write the album-to-members mapping as JSON.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtreskin/keepsake/internal/mirror"
)

var flagExportOutput string

var albumsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the album mapping as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		library, albums, favorites, err := readLibrary()
		if err != nil {
			fail("export albums", err)
		}

		mapping := mirror.NewMapping(library, albums, favorites)
		if err := mirror.WriteMapping(flagExportOutput, mapping); err != nil {
			fail("export albums", err)
		}

		fmt.Printf("Exported album mapping to: %s\n", flagExportOutput)
	},
}

func init() {
	albumsExportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "output JSON file (required)")
	albumsExportCmd.MarkFlagRequired("output")
}
