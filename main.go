// chinookdemo: Chinook music-store demo loader.
// Creates the Chinook schema on an external SQL store, bulk-loads the sample
// dataset through a quote/comment-aware script importer, and runs a battery
// of analytic report queries.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chinookdemo/cmd"
	"chinookdemo/internal/config"
	"chinookdemo/internal/logger"
)

// Build information (set by ldflags)
var (
	version   = "1.4.2"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize configuration
	cfg := config.New()
	cfg.Version = version
	cfg.BuildTime = buildTime
	cfg.GitCommit = gitCommit

	// Initialize logger and promote to debug level when Debug flag is set
	logLevel := cfg.LogLevel
	if cfg.Debug && logLevel != "debug" {
		logLevel = "debug"
	}
	log := logger.New(logLevel, cfg.LogFormat)

	// Execute command
	if err := cmd.Execute(ctx, cfg, log); err != nil {
		log.Error("Application failed", "error", err)
		os.Exit(1)
	}
}
