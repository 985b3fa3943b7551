// Package ffmpeg builds and runs the single-frame extraction command.
//
// Types:
//   - FrameOptions (output width and JPEG quality)
//   - Extractor (binary, timeout, options; implements the pipeline's
//     frame extractor)
//   - ExecError (failed or timed-out run with captured stderr)
//
// Functions:
//   - ThumbnailArgs(url, out, seek, opts) → []string
//     -y [-ss seek] -i url -vframes 1 -q:v Q -vf scale=W:-1 out
//   - (*Extractor).ExtractFrame(ctx, url, out, seek) → error
//     Runs ffmpeg under the extract timeout and captures stderr.
//   - Classify(stderr) → string
//     Short label for common failures (HTTP status, DNS, bad data).
package ffmpeg
