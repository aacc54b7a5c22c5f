// pipeline-verify provisions the log pipeline, checks it end to end and tears it down.
//
// Usage:
//
//	pipeline-verify run [--config=<file>] [--settle-mode=stable|fixed] [--store-path=<db>]
//	pipeline-verify teardown
//	pipeline-verify history [--limit=N] [--offset=N] [--failed]
//	pipeline-verify show <run-id>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	_ = zap.L().Sync()
	if err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
