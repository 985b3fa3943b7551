package config

// This file implements CLI flag definitions and help text.
// Flags are grouped into input/output, frame selection, behavior, display, and utility.
// Values are merged with the config file and environment in load.go; a flag only
// wins over those sources when the user actually passed it.

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Flag names double as viper keys, config-file keys, and (upper-cased, with
// dashes turned into underscores) THUMBMASTER_* environment variable suffixes.
const (
	keyManifest       = "manifest"
	keyOutput         = "output"
	keyConfig         = "config"
	keyFfmpeg         = "ffmpeg"
	keyFfprobe        = "ffprobe"
	keyProbeTimeout   = "probe-timeout"
	keyExtractTimeout = "extract-timeout"
	keyFallbackSeek   = "fallback-seek"
	keyWidth          = "width"
	keyQuality        = "quality"
	keyDryRun         = "dry-run"
	keyForce          = "force"
	keyNoProbe        = "no-probe"
	keyColor          = "color"
	keyLog            = "log"
	keyVerbose        = "verbose"
	keyCheck          = "check"
)

// newFlagSet registers every flag on a fresh FlagSet using cfg's current
// values as defaults. Help and version are bound directly to cfg since they
// are never read from a file.
func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("thumbmaster", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)

	defineIOFlags(fs, cfg)
	defineFrameFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg)
	defineUtilityFlags(fs, cfg)
	return fs
}

// defineIOFlags registers -m/--manifest, -o/--output, --config, --ffmpeg, --ffprobe.
func defineIOFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP(keyManifest, "m", cfg.ManifestPath, "Manifest JSON file")
	fs.StringP(keyOutput, "o", cfg.OutputDir, "Thumbnail output directory")
	fs.String(keyConfig, "", "Config file (yaml, json, toml)")
	fs.String(keyFfmpeg, cfg.FfmpegBin, "ffmpeg binary")
	fs.String(keyFfprobe, cfg.FfprobeBin, "ffprobe binary")
}

// defineFrameFlags registers timeouts, fallback seek, width, and JPEG quality.
func defineFrameFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Duration(keyProbeTimeout, cfg.ProbeTimeout, "Timeout for each ffprobe call")
	fs.Duration(keyExtractTimeout, cfg.ExtractTimeout, "Timeout for each ffmpeg call")
	fs.Float64(keyFallbackSeek, cfg.FallbackSeek, "Seek seconds when duration is unknown")
	fs.Int(keyWidth, cfg.ThumbWidth, "Thumbnail width in pixels")
	fs.IntP(keyQuality, "q", cfg.JPEGQuality, "JPEG quality, 2 (best) .. 31")
}

// defineBehaviorFlags registers dry-run, force, and no-probe.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolP(keyDryRun, "d", cfg.DryRun, "Preview only; do not run ffmpeg")
	fs.BoolP(keyForce, "f", cfg.Force, "Regenerate existing thumbnails")
	fs.Bool(keyNoProbe, cfg.NoProbe, "Do not query ffprobe for durations")
}

// defineDisplayFlags registers --color, --log, and --verbose.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String(keyColor, string(cfg.ColorMode), "Color output: auto | always | never")
	fs.StringP(keyLog, "l", cfg.LogFile, "Append JSON logs to file")
	fs.BoolP(keyVerbose, "v", cfg.Verbose, "Verbose output")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolP(keyCheck, "c", cfg.CheckOnly, "Run system diagnostics and exit")
	fs.BoolVarP(&cfg.ShowVersion, "version", "V", false, "Print version and exit")
	fs.BoolVarP(&cfg.ShowHelp, "help", "h", false, "Show this help and exit")
}

// PrintUsage writes the help text to w. Column-aligned for readability.
func PrintUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "Thumbmaster v" + version + " - midpoint JPEG thumbnails for a video manifest"},
		{"", ""},
		{"  thumbmaster [OPTIONS] [manifest.json]", ""},
		{"", ""},
		{"Input & output", ""},
		{"  -m, --manifest <path>", "Manifest JSON (default: mp4_downloads.json)"},
		{"  -o, --output <dir>", "Thumbnail directory (default: thumbnails)"},
		{"  --config <path>", "Config file (default: ./thumbmaster.yaml if present)"},
		{"  --ffmpeg <path>", "ffmpeg binary (default: ffmpeg)"},
		{"  --ffprobe <path>", "ffprobe binary (default: ffprobe)"},
		{"", ""},
		{"Frame selection", ""},
		{"  --probe-timeout <dur>", "Timeout per ffprobe call (default: 30s)"},
		{"  --extract-timeout <dur>", "Timeout per ffmpeg call (default: 60s)"},
		{"  --fallback-seek <sec>", "Seek when duration is unknown (default: 30)"},
		{"  --width <px>", "Thumbnail width (default: 320)"},
		{"  -q, --quality <2-31>", "JPEG quality, lower is better (default: 2)"},
		{"", ""},
		{"Behavior", ""},
		{"  -f, --force", "Regenerate thumbnails that already exist"},
		{"  -d, --dry-run", "Preview only; do not run ffmpeg"},
		{"  --no-probe", "Skip the ffprobe duration lookup"},
		{"", ""},
		{"Display", ""},
		{"  --color <mode>", "auto | always | never (default: auto)"},
		{"  -v, --verbose", "Verbose output, including ffmpeg stderr"},
		{"  -l, --log <path>", "Append JSON logs to file"},
		{"", ""},
		{"Utility", ""},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, mjpeg)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Every option can also be set in the config file or as THUMBMASTER_<NAME>", ""},
		{"(e.g. THUMBMASTER_EXTRACT_TIMEOUT=90s). Flags take precedence.", ""},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
