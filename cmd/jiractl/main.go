package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/nhle/jiractl/internal/cli"
	"github.com/nhle/jiractl/internal/telemetry"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := telemetry.Init(ctx, "jiractl", version); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	root := cli.NewRootCmd()
	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("jiractl version %s\n", version))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.Code(err)
	}
	return 0
}
