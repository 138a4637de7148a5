package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daosim/config"
	"daosim/core/log"
	"daosim/fixtures"
	"daosim/usecases/environment"
	"daosim/usecases/scenarios"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Scenario string `long:"scenario" description:"Scenario to run (overrides TEST_SCENARIO)" choice:"default" choice:"voting" choice:"custom"`
	Duration int    `long:"duration" description:"Seconds to let background tasks run (overrides TEST_DURATION)"`
	Debug    bool   `long:"debug" description:"Enable debug logging (overrides DEBUG)"`
	Fixture  string `long:"fixture" description:"YAML guild layout to use instead of the built-in JAM DAO one"`
}

// apply lets command line flags override environment settings.
func (o Options) apply(cfg *config.AppConfig) {
	if o.Scenario != "" {
		cfg.Scenario = o.Scenario
	}
	if o.Duration > 0 {
		cfg.Duration = time.Duration(o.Duration) * time.Second
	}
	if o.Debug {
		cfg.Debug = true
	}
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(opts))
}

func run(opts Options) int {
	log.SetLevel(slog.LevelInfo)

	cfg := config.LoadConfig()
	opts.apply(cfg)
	if cfg.Debug {
		log.SetLevel(slog.LevelDebug)
	}

	runner := scenarios.NewRunner(environment.NewJamDao(cfg.Commands), cfg.Duration, cfg.TickDelay)
	if opts.Fixture != "" {
		structure, err := fixtures.LoadFile(opts.Fixture)
		if err != nil {
			log.Error("❌ Failed to load fixture %s: %v", opts.Fixture, err)
			return 1
		}
		runner.Structure = structure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("📋 Running scenario %s for %s", cfg.Scenario, cfg.Duration)
	report, err := runner.Run(ctx, cfg.Scenario)
	if err != nil {
		log.Error("❌ Scenario %s could not run: %v", cfg.Scenario, err)
		return 1
	}

	if err := report.Print(os.Stdout); err != nil {
		log.Error("❌ Failed to print report: %v", err)
		return 1
	}
	if report.Failed() {
		return 1
	}
	return 0
}
