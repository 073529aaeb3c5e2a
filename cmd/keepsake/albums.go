// Albums command group: list, export, and materialize Photos.app albums.
package main

import (
	"github.com/spf13/cobra"
)

var flagPhotosLibrary string

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "Reconstruct Photos.app album structure",
	Long: `Albums reads the Photos.app database (read-only) and reconstructs the
album structure the flat icloudpd backup loses: list albums, export the
album-to-photos mapping as JSON, or materialize album folders of symlinks
or copies pointing into the backup.`,
}

func init() {
	albumsCmd.PersistentFlags().StringVar(&flagPhotosLibrary, "photos-library", "",
		"Photos library bundle (default: ~/Pictures/Photos Library.photoslibrary)")

	albumsCmd.AddCommand(albumsListCmd)
	albumsCmd.AddCommand(albumsExportCmd)
	albumsCmd.AddCommand(albumsMaterializeCmd)
}
