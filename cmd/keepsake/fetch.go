// Fetch command: run icloudpd under a retry loop.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtreskin/keepsake/internal/fetcher"
)

var (
	flagFetchBin         string
	flagFetchDelay       time.Duration
	flagFetchMaxAttempts int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [-- icloudpd-args...]",
	Short: "Run icloudpd until it exits successfully",
	Long: `Fetch invokes the external icloudpd downloader and, when it fails,
retries after a fixed delay. There is no backoff and, by default, no attempt
limit; interrupt with Ctrl-C. Arguments after -- are passed to icloudpd
unchanged.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := &fetcher.Runner{
			Bin:         flagFetchBin,
			Args:        args,
			Delay:       flagFetchDelay,
			MaxAttempts: flagFetchMaxAttempts,
			Log:         log,
		}
		if err := r.Run(ctx); err != nil {
			fail("fetch", err)
		}
	},
}

func init() {
	fetchCmd.Flags().StringVar(&flagFetchBin, "icloudpd-bin", "icloudpd", "downloader binary to invoke")
	fetchCmd.Flags().DurationVar(&flagFetchDelay, "delay", 5*time.Minute, "fixed delay between attempts")
	fetchCmd.Flags().IntVar(&flagFetchMaxAttempts, "max-attempts", 0, "attempt limit (0 retries forever)")
}
