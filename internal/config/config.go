// Package config holds runtime configuration: defaults, flag/file/env
// loading, and validation. Defaults: 320px wide thumbnails at q:v 2, a 30s
// probe timeout, a 60s extract timeout, and a 30s fallback seek.
package config

import (
	"errors"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then overridden by [Load] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths.
	ManifestPath string // Default: "mp4_downloads.json".
	OutputDir    string // Default: "thumbnails".
	ConfigFile   string // Optional explicit config file (--config).

	// External tools.
	FfmpegBin  string // Default: "ffmpeg".
	FfprobeBin string // Default: "ffprobe".

	// Timeouts. Both are enforced per subprocess call.
	ProbeTimeout   time.Duration // Default: 30s.
	ExtractTimeout time.Duration // Default: 60s.

	// Frame selection and encoding.
	FallbackSeek float64 // Seconds; used as-is when duration is unknown. Default: 30.
	ThumbWidth   int     // Default: 320. Height follows aspect ratio.
	JPEGQuality  int     // ffmpeg -q:v scale, 2 (best) .. 31. Default: 2.

	// Behavior flags.
	DryRun  bool
	Force   bool // Re-extract even when the thumbnail already exists.
	NoProbe bool // Skip the ffprobe duration tier.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path (JSON lines).
	CheckOnly bool      // Run --check diagnostics and exit.

	// Set by Load when --help or --version was requested.
	ShowHelp    bool
	ShowVersion bool
}

// DefaultConfig returns a Config with the stock defaults. Used as the base
// before [Load] applies file, environment, and flag overrides.
func DefaultConfig() Config {
	return Config{
		ManifestPath:   "mp4_downloads.json",
		OutputDir:      "thumbnails",
		FfmpegBin:      "ffmpeg",
		FfprobeBin:     "ffprobe",
		ProbeTimeout:   30 * time.Second,
		ExtractTimeout: 60 * time.Second,
		FallbackSeek:   30,
		ThumbWidth:     320,
		JPEGQuality:    2,
		ColorMode:      ColorAuto,
	}
}

// Validate checks enum fields and numeric ranges. Path existence is not
// checked here; the entrypoint does that so it can report it separately.
func (c *Config) Validate() error {
	err := v.ValidateStruct(c,
		v.Field(&c.ManifestPath, v.When(!c.CheckOnly, v.Required.Error("manifest path must not be empty"))),
		v.Field(&c.OutputDir, v.When(!c.CheckOnly, v.Required.Error("output directory must not be empty"))),
		v.Field(&c.FfmpegBin, v.Required),
		v.Field(&c.FfprobeBin, v.Required),
		v.Field(&c.ProbeTimeout, v.Min(time.Millisecond).Error("probe timeout must be positive")),
		v.Field(&c.ExtractTimeout, v.Min(time.Millisecond).Error("extract timeout must be positive")),
		v.Field(&c.FallbackSeek, v.Min(0.0).Error("fallback seek must not be negative")),
		v.Field(&c.ThumbWidth, v.Min(1).Error("width must be positive")),
		v.Field(&c.JPEGQuality, v.Min(2), v.Max(31)),
		v.Field(&c.ColorMode, v.In(ColorAuto, ColorAlways, ColorNever).Error("invalid color mode (use 'auto', 'always' or 'never')")),
	)
	if err != nil {
		return errors.New("invalid configuration: " + err.Error())
	}
	return nil
}
