package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"web-scraper-go/internal/app"
	"web-scraper-go/internal/logging"
	"web-scraper-go/internal/scraper"
	"web-scraper-go/internal/storage"
)

func main() {
	var (
		configFile = flag.String("config", "scraper.json", "Configuration file path")
		verbose    = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	a, err := app.Load(app.Options{ConfigFile: *configFile, Verbose: *verbose})
	if err != nil {
		// The configured logger is not available yet.
		logging.NewDefault().Fatal("Failed to start", zap.Error(err), zap.String("config", *configFile))
	}
	defer a.Close()

	store, err := a.Store()
	if err != nil {
		a.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Cancel the in-flight fetch on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			a.Logger.Info("Received signal, stopping", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
		}
	}()

	failed, err := runAll(ctx, store, a.Executor, os.Stdout, a.Logger)
	if err != nil {
		a.Logger.Fatal("Batch run failed", zap.Error(err))
	}

	printMetrics(a.Executor.Metrics(), a.Logger)
	if failed > 0 {
		a.Close()
		os.Exit(1)
	}
}

// runAll runs every saved job once, in name order, and writes each job's
// result lines to w. It returns the number of failed runs.
func runAll(ctx context.Context, store storage.Store, executor *scraper.Executor, w io.Writer, logger *zap.Logger) (int, error) {
	names, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	if len(names) == 0 {
		logger.Info("No saved jobs to run")
		return 0, nil
	}

	failed := 0
	for _, name := range names {
		if ctx.Err() != nil {
			return failed, ctx.Err()
		}

		job, err := store.Get(ctx, name)
		if err != nil {
			return failed, fmt.Errorf("failed to load job %q: %w", name, err)
		}

		result, err := executor.RunJob(ctx, job)
		if err != nil {
			// Stored jobs are validated on write, so this only happens for
			// hand-edited remote rows.
			logger.Warn("Skipping invalid job", zap.String("job", name), zap.Error(err))
			failed++
			continue
		}
		if result.Failed() {
			failed++
		}

		fmt.Fprintf(w, "=== %s (%s) ===\n", job.Name, result.URL)
		lines := result.Lines()
		if len(lines) == 0 {
			fmt.Fprintln(w, "No elements found with the given selector.")
		}
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}
	return failed, nil
}

// printMetrics logs the executor metrics after a batch
func printMetrics(metrics scraper.RunMetrics, logger *zap.Logger) {
	logger.Info("Batch finished",
		zap.Int64("runs", metrics.TotalRuns),
		zap.Int64("succeeded", metrics.Succeeded),
		zap.Int64("empty", metrics.EmptyResults),
		zap.Int64("network_errors", metrics.NetworkErrors),
		zap.Int64("other_errors", metrics.OtherErrors),
		zap.Int64("items", metrics.ItemsExtracted),
		zap.Duration("last_duration", metrics.LastDuration),
	)
}
