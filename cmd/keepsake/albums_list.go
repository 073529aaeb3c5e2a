// List subcommand: show albums with member counts, no side effects.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mtreskin/keepsake/internal/mirror"
)

// albumListing is the --json output shape of `albums list`.
type albumListing struct {
	Album      string `json:"album"`
	PhotoCount int    `json:"photo_count"`
}

var albumsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List albums and their photo counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, albums, favorites, err := readLibrary()
		if err != nil {
			fail("list albums", err)
		}

		if flagJSON {
			listing := make([]albumListing, 0, len(albums)+1)
			for _, album := range albums {
				listing = append(listing, albumListing{
					Album:      album.DisplayPath(),
					PhotoCount: len(album.Photos),
				})
			}
			if len(favorites) > 0 {
				listing = append(listing, albumListing{
					Album:      mirror.FavoritesDirName,
					PhotoCount: len(favorites),
				})
			}

			out, err := json.MarshalIndent(listing, "", "  ")
			if err != nil {
				fmt.Fprintln(os.Stderr, "marshal listing:", err)
				os.Exit(exitSysError)
			}
			fmt.Println(string(out))
			return
		}

		fmt.Printf("Found %d albums and %d favorites:\n", len(albums), len(favorites))
		for _, album := range albums {
			fmt.Printf("  %s: %d photos\n", album.DisplayPath(), len(album.Photos))
		}
		fmt.Printf("  %s: %d photos\n", mirror.FavoritesDirName, len(favorites))
	},
}
