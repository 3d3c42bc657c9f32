package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"potato-classifier/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "potato: %v\n", err)
		stop()
		os.Exit(1)
	}
}
