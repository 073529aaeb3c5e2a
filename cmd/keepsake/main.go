// Package main provides the keepsake CLI, a small set of personal backup
// tools for macOS iCloud data: Photos.app album reconstruction over an
// icloudpd backup, Voice Memos extraction, and a retry wrapper around the
// downloader itself.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
