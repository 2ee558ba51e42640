// Command nuclides answers nuclide, decay and atomic-weight lookups against
// the wallet-card and atomic-weight tables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nuclide-data/internal/cli"
	"github.com/couchcryptid/nuclide-data/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(observability.NewMetrics())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
