// Package fetcher wraps the external icloudpd downloader with a retry loop.
// The downloader is an opaque collaborator: keepsake only re-invokes it with
// a fixed delay between attempts until it exits successfully.
package fetcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Runner invokes Bin with Args until it exits zero. Delay is the fixed pause
// between attempts; there is no backoff and no error classification.
// MaxAttempts of zero retries forever, matching the original shell loop.
type Runner struct {
	Bin         string
	Args        []string
	Delay       time.Duration
	MaxAttempts int
	Log         *zap.SugaredLogger

	// run is swapped in tests to avoid spawning real processes.
	run func(ctx context.Context) error
}

// Run executes the retry loop. It returns nil once the downloader exits zero,
// the last error when MaxAttempts is exhausted, or the context error when
// canceled between attempts.
func (r *Runner) Run(ctx context.Context) error {
	if r.Bin == "" {
		return fmt.Errorf("downloader binary not set")
	}

	runOnce := r.run
	if runOnce == nil {
		runOnce = r.exec
	}

	for attempt := 1; ; attempt++ {
		r.Log.Infow("starting downloader", "bin", r.Bin, "attempt", attempt)

		err := runOnce(ctx)
		if err == nil {
			r.Log.Infow("downloader finished", "attempts", attempt)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.Log.Warnw("downloader failed", "attempt", attempt, "error", err)

		if r.MaxAttempts > 0 && attempt >= r.MaxAttempts {
			return fmt.Errorf("downloader failed after %d attempts: %w", attempt, err)
		}

		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// exec runs one downloader invocation with stdout/stderr passed through.
func (r *Runner) exec(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, r.Bin, r.Args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
