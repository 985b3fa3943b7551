// Package duration decides where in a video to grab the thumbnail frame.
//
// A [Resolver] walks an ordered list of [Strategy] values, cheapest first:
// the duration embedded in the manifest title, then an ffprobe lookup of the
// URL. The first one that yields a positive duration wins and the seek point
// is its midpoint. When none does, a fixed fallback offset is used as the
// seek point directly; it is not halved.
package duration
