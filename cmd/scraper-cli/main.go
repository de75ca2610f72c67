package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"web-scraper-go/cmd/scraper-cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
