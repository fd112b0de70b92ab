// jirafetch exports Jira tickets matching a configured JQL query,
// prunes configured fields from each ticket and writes the results to
// numbered output files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/halcyon-tools/jirafetch/internal/adapters/driving/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
