// Package check provides system diagnostics (--check mode) and the startup
// dependency validation (CheckDeps, CheckProbe) for ffmpeg and ffprobe.
package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/thumbmaster/internal/config"
	"github.com/backmassage/thumbmaster/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps and CheckProbe.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH (install it, e.g. sudo apt-get install ffmpeg)")
	ErrFfmpegUnusable  = errors.New("ffmpeg found but 'ffmpeg -version' failed")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays dependency-light and testable with a recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: ffmpeg and ffprobe versions,
// mjpeg encoder availability, and a test thumbnail render. It reports
// whether ffmpeg is usable for extraction; ffprobe problems are warnings.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkVersion(cfg.FfmpegBin, "ffmpeg", log, true)
	checkVersion(cfg.FfprobeBin, "ffprobe", log, false)
	if !ok {
		return false
	}
	checkMJPEG(cfg.FfmpegBin, log)
	return checkTestFrame(cfg, log)
}

// checkVersion verifies bin is on PATH and logs the first line of -version.
func checkVersion(bin, name string, log Logger, required bool) bool {
	fail := log.Warn
	if required {
		fail = log.Error
	}
	if _, err := exec.LookPath(bin); err != nil {
		fail("%s not found (%s)", name, bin)
		return false
	}
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		fail("%s found but -version failed: %v", name, err)
		return false
	}
	log.Success("%s: %s", name, firstLine(string(out)))
	return true
}

// checkMJPEG looks for the mjpeg encoder in ffmpeg's encoder list.
func checkMJPEG(bin string, log Logger) {
	out, err := exec.Command(bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "mjpeg" {
			log.Success("JPEG encoder: %s", strings.TrimSpace(line))
			return
		}
	}
	log.Warn("mjpeg encoder not listed; thumbnails may fail")
}

// checkTestFrame renders one frame of a synthetic source through the same
// argument builder the pipeline uses.
func checkTestFrame(cfg *config.Config, log Logger) bool {
	dir, err := os.MkdirTemp("", "thumbmaster-check")
	if err != nil {
		log.Error("Cannot create temp dir: %v", err)
		return false
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "check.jpg")
	log.Info("Rendering test thumbnail (%dpx, q:v %d)...", cfg.ThumbWidth, cfg.JPEGQuality)
	if !runSilent(cfg.FfmpegBin, testFrameArgs(cfg, out)...) {
		log.Error("Test thumbnail render failed")
		return false
	}
	fi, err := os.Stat(out)
	if err != nil || fi.Size() == 0 {
		log.Error("Test thumbnail render produced no output")
		return false
	}
	log.Success("Test thumbnail OK (%d bytes)", fi.Size())
	return true
}

func testFrameArgs(cfg *config.Config, out string) []string {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-f", "lavfi"}
	return append(args, ffmpeg.ThumbnailArgs("testsrc=duration=1:size=640x360:rate=1", out, 0, ffmpeg.OptionsFromConfig(cfg))...)
}

// CheckDeps is the pre-pipeline validation: ffmpeg must be on PATH and
// answer -version. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FfmpegBin); err != nil {
		return ErrFfmpegNotFound
	}
	if !runSilent(cfg.FfmpegBin, "-version") {
		return ErrFfmpegUnusable
	}
	return nil
}

// CheckProbe reports whether ffprobe is available for the duration probe tier.
func CheckProbe(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FfprobeBin); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// --- internal helpers ---

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
