package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/backmassage/thumbmaster/internal/config"
	"github.com/backmassage/thumbmaster/internal/display"
	"github.com/backmassage/thumbmaster/internal/duration"
	"github.com/backmassage/thumbmaster/internal/logging"
	"github.com/backmassage/thumbmaster/internal/manifest"
	"github.com/backmassage/thumbmaster/internal/naming"
)

const titleDisplayLen = 60

// Extractor writes one frame of url, taken seek seconds in, to outPath.
// *ffmpeg.Extractor is the production implementation.
type Extractor interface {
	ExtractFrame(ctx context.Context, url, outPath string, seek float64) error
}

// SeekResolver picks the frame offset for a video. *duration.Resolver is
// the production implementation.
type SeekResolver interface {
	Resolve(ctx context.Context, title, url string) duration.Resolution
}

// Runner is the run controller. It holds no per-run state between calls to
// Run; counters and the deduplicated set live inside each Run.
type Runner struct {
	cfg       *config.Config
	log       *logging.Logger
	resolver  SeekResolver
	extractor Extractor
}

// NewRunner wires the controller to its collaborators.
func NewRunner(cfg *config.Config, log *logging.Logger, resolver SeekResolver, extractor Extractor) *Runner {
	return &Runner{cfg: cfg, log: log, resolver: resolver, extractor: extractor}
}

// Run deduplicates records, creates the output directory, processes every
// video sequentially, logs the summary, and returns the counters. The only
// error is failing to create the output directory; per-video failures are
// counted in the stats.
func (r *Runner) Run(ctx context.Context, records []manifest.VideoRecord) (RunStats, error) {
	start := time.Now()
	stats := RunStats{Entries: len(records)}

	videos := manifest.Dedupe(records)
	stats.Total = len(videos)
	r.log.Info("Found %d manifest entries", stats.Entries)
	r.log.Info("Deduplicated to %d unique videos", stats.Total)

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}
	stats.OutputDir = r.cfg.OutputDir
	if abs, err := filepath.Abs(r.cfg.OutputDir); err == nil {
		stats.OutputDir = abs
	}
	fmt.Println()

	for i, v := range videos {
		stats.Current = i + 1

		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			break
		}

		r.processVideo(ctx, v, &stats)
	}

	stats.Elapsed = time.Since(start)
	r.logSummary(&stats)
	return stats, nil
}

// processVideo handles one record: validate → skip-existing → resolve seek → extract.
func (r *Runner) processVideo(ctx context.Context, v manifest.VideoRecord, stats *RunStats) {
	prefix := fmt.Sprintf("[%d/%d]", stats.Current, stats.Total)

	// --- Validate ---
	if err := v.Validate(); err != nil {
		r.log.Warn("%s Skipping: missing URL or identifier (%v)", prefix, err)
		stats.Skipped++
		stats.SkippedInvalid++
		return
	}

	log := r.log.With("id", v.Identifier)
	outPath := naming.ThumbnailPath(r.cfg.OutputDir, v.Identifier)
	name := filepath.Base(outPath)

	// --- Skip-existing check ---
	if !r.cfg.Force && fileExists(outPath) {
		log.Info("%s Exists: %s", prefix, name)
		stats.Skipped++
		stats.SkippedExisting++
		return
	}

	log.Info("%s Processing: %s", prefix, displayTitle(v))

	// --- Resolve seek point ---
	res := r.resolver.Resolve(ctx, v.Title, v.URL)
	for _, a := range res.Attempts {
		if a.Source == duration.SourceProbe {
			log.Warn("  Could not get duration via ffprobe: %v", a.Err)
		} else {
			log.Debug("  No duration from %s: %v", a.Source, a.Err)
		}
	}
	stats.countSource(res.Source)
	logResolution(log, res)

	// --- Dry-run ---
	if r.cfg.DryRun {
		log.Success("  [DRY] Would extract frame at %ss -> %s", display.FormatSeconds(res.Seek), name)
		stats.Succeeded++
		return
	}

	// --- Extract ---
	existed := fileExists(outPath)
	start := time.Now()
	if err := r.extractor.ExtractFrame(ctx, v.URL, outPath, res.Seek); err != nil {
		log.Error("  Thumbnail failed: %v", err)
		if existed {
			log.Warn("  Keeping existing thumbnail %s", name)
			stats.Failed++
			return
		}
		// A partial file would mark the video done on the next run.
		if rmErr := os.Remove(outPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Warn("  Could not remove partial output %s: %v", name, rmErr)
		}
		stats.Failed++
		return
	}

	var size int64
	if fi, err := os.Stat(outPath); err == nil {
		size = fi.Size()
	}
	stats.OutputBytes += size
	stats.Succeeded++
	log.Success("  Saved: %s (%s in %s)", name, display.FormatBytes(size), display.FormatElapsed(time.Since(start)))
}

func logResolution(log *logging.Logger, res duration.Resolution) {
	if !res.Known() {
		log.Info("  -> Duration unknown, using fallback: seeking to %ss", display.FormatSeconds(res.Seek))
		return
	}
	log.Info("  -> Duration: %ss (%s, from %s), seeking to %ss (middle)",
		display.FormatSeconds(res.Duration), display.FormatClock(res.Duration), res.Source,
		display.FormatSeconds(res.Seek))
}

// displayTitle returns the title cut to 60 characters, falling back to the
// filename and then the identifier.
func displayTitle(v manifest.VideoRecord) string {
	title := v.Title
	if title == "" {
		title = v.Filename
	}
	if title == "" {
		return v.Identifier
	}
	if utf8.RuneCountInString(title) > titleDisplayLen {
		return string([]rune(title)[:titleDisplayLen]) + "..."
	}
	return title
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- Logging helpers ---

func (r *Runner) logSummary(stats *RunStats) {
	fmt.Println()
	r.log.Info("==============================")
	r.log.Info("SUMMARY")
	r.log.Info("==============================")
	r.log.Info("Total videos:    %d (from %d manifest entries)", stats.Total, stats.Entries)
	r.log.Info("Successful:    %d", stats.Succeeded)
	if stats.Failed > 0 {
		r.log.Error("Failed:        %d", stats.Failed)
	} else {
		r.log.Info("Failed:        0")
	}
	r.log.Info("Skipped:       %d (%d existing, %d missing URL or identifier)",
		stats.Skipped, stats.SkippedExisting, stats.SkippedInvalid)
	if stats.Attempted() > 0 || r.cfg.DryRun {
		r.log.Info("Seek source:   %d title, %d probe, %d fallback",
			stats.FromTitle, stats.FromProbe, stats.FromFallback)
	}
	if r.cfg.DryRun {
		r.log.Info("Written:       n/a (dry run)")
	} else {
		r.log.Info("Written:       %s", display.FormatBytes(stats.OutputBytes))
	}
	r.log.Info("Elapsed:       %s", display.FormatElapsed(stats.Elapsed))
	r.log.Info("Thumbnails saved in: %s", stats.OutputDir)
}
