// Package main is the entry point for the herald event runner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/herald/internal/app"
	"github.com/dshills/herald/internal/config"
	"github.com/dshills/herald/internal/event/facade"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	fake       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	// Flags win over file and environment.
	cfg, err := config.Load(opts.configPath, func(c *config.Config) {
		if opts.logLevel != "" {
			c.Logging.Level = opts.logLevel
		}
		if opts.fake {
			c.Fake = true
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return 1
	}

	// Code using the package-level shortcuts talks to the same manager.
	facade.SetManager(application.Manager())

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrExpectationFailed) {
			logger.Error("expectations not met", zap.Error(err))
			return 2
		}
		logger.Error("run failed", zap.Error(err))
		return 1
	}

	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.yaml, .yml or .toml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.fake, "fake", false, "Record events instead of dispatching them and check expectations")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "herald - in-process event dispatcher\n\n")
		fmt.Fprintf(os.Stderr, "Usage: herald [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  herald -config herald.yaml          Run listeners and events\n")
		fmt.Fprintf(os.Stderr, "  herald -config herald.toml -fake    Check expectations\n")
		fmt.Fprintf(os.Stderr, "\nExit status is 2 when expectations are not met.\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("herald %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
