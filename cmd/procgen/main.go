// Package main is the entry point for procgen.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/roach88/procgen/internal/cli"
	"github.com/roach88/procgen/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn(".env file not loaded", "error", err)
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without tracing", "error", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	root := cli.NewRootCommand()
	root.SetArgs(cli.HostArgs(args))
	if err := root.ExecuteContext(ctx); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
