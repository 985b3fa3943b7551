// Package probe asks ffprobe for a media container's duration.
//
// Only the format-level duration is requested, printed bare on stdout:
//
//	ffprobe -v error -show_entries format=duration \
//	        -of default=noprint_wrappers=1:nokey=1 <url>
//
// For remote URLs ffprobe reads just the container headers, which is far
// cheaper than decoding any video.
package probe
