package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/backmassage/thumbmaster/internal/config"
	"github.com/backmassage/thumbmaster/internal/display"
)

// FrameOptions controls the encoded thumbnail.
type FrameOptions struct {
	Width   int // Output width; height keeps the aspect ratio.
	Quality int // -q:v for the mjpeg encoder, 2 (best) .. 31.
}

// OptionsFromConfig returns the frame options configured in cfg.
func OptionsFromConfig(cfg *config.Config) FrameOptions {
	return FrameOptions{Width: cfg.ThumbWidth, Quality: cfg.JPEGQuality}
}

// ThumbnailArgs constructs the ffmpeg argument slice (without the binary)
// that writes one scaled frame of url to outPath. -ss is placed before -i
// so ffmpeg seeks the input instead of decoding up to the offset; it is
// omitted when seek is not positive and ffmpeg then takes the first frame.
// -y lets a rerun overwrite a partial file from an interrupted run.
func ThumbnailArgs(url, outPath string, seek float64, opts FrameOptions) []string {
	args := make([]string, 0, 14)

	// --- Preamble ---
	args = append(args, "-y")

	// --- Input seek ---
	if seek > 0 {
		args = append(args, "-ss", display.FormatSeconds(seek))
	}

	// --- Input ---
	args = append(args, "-i", url)

	// --- Single frame, JPEG quality, scale ---
	args = append(args,
		"-vframes", "1",
		"-q:v", strconv.Itoa(opts.Quality),
		"-vf", fmt.Sprintf("scale=%d:-1", opts.Width),
	)

	// --- Output ---
	return append(args, outPath)
}
