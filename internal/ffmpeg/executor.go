package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/backmassage/thumbmaster/internal/config"
)

// waitDelay bounds how long we wait for ffmpeg's pipes after it is killed.
const waitDelay = 2 * time.Second

// Extractor runs ffmpeg to grab one frame per call.
type Extractor struct {
	Bin     string
	Timeout time.Duration
	Opts    FrameOptions

	// Tee, when non-nil, receives ffmpeg's stderr live in addition to the
	// capture used for error reporting.
	Tee io.Writer
}

// NewExtractor returns an Extractor from cfg. In verbose mode ffmpeg's
// stderr is also streamed to os.Stderr.
func NewExtractor(cfg *config.Config) *Extractor {
	e := &Extractor{
		Bin:     cfg.FfmpegBin,
		Timeout: cfg.ExtractTimeout,
		Opts:    OptionsFromConfig(cfg),
	}
	if cfg.Verbose {
		e.Tee = os.Stderr
	}
	return e
}

// Command returns the full command line (binary first), for logging.
func (e *Extractor) Command(url, outPath string, seek float64) []string {
	return append([]string{e.Bin}, ThumbnailArgs(url, outPath, seek, e.Opts)...)
}

// ExtractFrame writes one frame of url, taken at seek seconds, to outPath.
// A non-zero exit or a timeout returns an *ExecError carrying the start of
// ffmpeg's stderr; a timeout additionally wraps [ErrTimeout].
func (e *Extractor) ExtractFrame(ctx context.Context, url, outPath string, seek float64) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := ThumbnailArgs(url, outPath, seek, e.Opts)
	cmd := exec.CommandContext(ctx, e.Bin, args...)
	cmd.WaitDelay = waitDelay

	var stderrBuf bytes.Buffer
	if e.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.Tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ExecError{Stderr: stderrBuf.String(), Err: fmt.Errorf("%w after %s", ErrTimeout, e.Timeout)}
	}
	if err != nil {
		return &ExecError{Stderr: stderrBuf.String(), Err: err}
	}
	return nil
}
