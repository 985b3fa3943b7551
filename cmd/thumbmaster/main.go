// Command thumbmaster is the CLI entrypoint for the Thumbmaster batch
// thumbnail generator.
//
// It loads configuration, validates the ffmpeg/ffprobe setup, and either
// runs system diagnostics (--check) or one thumbnail pass over the manifest.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/thumbmaster/internal/check"
	"github.com/backmassage/thumbmaster/internal/config"
	"github.com/backmassage/thumbmaster/internal/display"
	"github.com/backmassage/thumbmaster/internal/duration"
	"github.com/backmassage/thumbmaster/internal/ffmpeg"
	"github.com/backmassage/thumbmaster/internal/logging"
	"github.com/backmassage/thumbmaster/internal/manifest"
	"github.com/backmassage/thumbmaster/internal/pipeline"
	"github.com/backmassage/thumbmaster/internal/probe"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.Load(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "thumbmaster: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'thumbmaster --help' for usage.")
		return 1
	}
	if cfg.ShowHelp {
		config.PrintUsage(os.Stdout, version)
		return 0
	}
	if cfg.ShowVersion {
		fmt.Printf("thumbmaster %s (%s)\n", version, commit)
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "thumbmaster: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "thumbmaster: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Info("=== Thumbmaster v%s (%s) ===", version, commit)
	log.Info("Manifest: %s", cfg.ManifestPath)
	log.Info("Out:      %s", cfg.OutputDir)
	if cfg.ConfigFile != "" {
		log.Info("Config:   %s", cfg.ConfigFile)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no thumbnails will be written")
	}

	// Fail fast if ffmpeg is unavailable; ffprobe only feeds the middle tier.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	records, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			log.Error("Manifest not found: %s", cfg.ManifestPath)
		} else {
			log.Error("%v", err)
		}
		return 1
	}

	// Phase 3: Wire the duration tiers and the extractor, then run.
	resolver := newResolver(&cfg, log)
	log.Debug("Duration tiers: %v, fallback %ss", resolver.Strategies(), display.FormatSeconds(resolver.Fallback()))

	runner := pipeline.NewRunner(&cfg, log, resolver, ffmpeg.NewExtractor(&cfg))
	if _, err := runner.Run(context.Background(), records); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

// newResolver builds title → probe → fallback, dropping the probe tier when
// it is disabled or ffprobe cannot be found.
func newResolver(cfg *config.Config, log *logging.Logger) *duration.Resolver {
	strategies := []duration.Strategy{duration.TitleStrategy{}}
	switch {
	case cfg.NoProbe:
		log.Info("ffprobe disabled (--no-probe); using title durations and fallback only")
	default:
		if err := check.CheckProbe(cfg); err != nil {
			log.Warn("%v; using title durations and fallback only", err)
			break
		}
		strategies = append(strategies, duration.ProbeStrategy{Prober: probe.New(cfg)})
	}
	return duration.NewResolver(cfg.FallbackSeek, strategies...)
}
