// Package pipeline runs one thumbnail pass over a manifest: deduplicate,
// then for each video apply the skip rules, resolve a seek point, extract
// the frame, and count the outcome. A batch summary closes the run.
//
// Items are isolated: a malformed record, an unreachable URL, or a failed
// ffmpeg run is counted and logged, and the loop moves on.
package pipeline
