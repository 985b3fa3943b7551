package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/thumbmaster/internal/config"
)

var (
	// ErrTimeout is returned when ffprobe does not finish within the timeout.
	ErrTimeout = errors.New("ffprobe timed out")
	// ErrNoDuration is returned when ffprobe succeeds but reports no usable duration.
	ErrNoDuration = errors.New("no duration reported")
)

// waitDelay bounds how long we wait for ffprobe's pipes after it is killed.
const waitDelay = 2 * time.Second

// Prober runs ffprobe with a per-call timeout.
type Prober struct {
	Bin     string
	Timeout time.Duration
}

// New returns a Prober using the configured binary and probe timeout.
func New(cfg *config.Config) *Prober {
	return &Prober{Bin: cfg.FfprobeBin, Timeout: cfg.ProbeTimeout}
}

// Args returns the ffprobe arguments (without the binary) for url.
func Args(url string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		url,
	}
}

// Duration returns the container duration of url in seconds.
func (p *Prober) Duration(ctx context.Context, url string) (float64, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.Bin, Args(url)...)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 0, fmt.Errorf("%w after %s", ErrTimeout, p.Timeout)
	}
	if err != nil {
		if msg := firstLine(stderr.String()); msg != "" {
			return 0, fmt.Errorf("ffprobe: %w: %s", err, msg)
		}
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return ParseDuration(out)
}

// ParseDuration reads the first non-empty line of ffprobe's output as
// seconds. "N/A", non-numeric text, and non-positive or non-finite values
// all yield an error wrapping [ErrNoDuration].
func ParseDuration(out []byte) (float64, error) {
	line := firstLine(string(out))
	if line == "" || line == "N/A" {
		return 0, ErrNoDuration
	}
	sec, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable %q", ErrNoDuration, line)
	}
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec <= 0 {
		return 0, fmt.Errorf("%w: got %q", ErrNoDuration, line)
	}
	return sec, nil
}

func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
