// Package manifest loads the video manifest (mp4_downloads.json) and
// collapses duplicate entries to one record per identifier.
//
// The manifest is a JSON object whose "mp4_files" array lists one entry per
// downloadable file. Several entries may share an identifier (different
// bitrates of the same video); [Dedupe] keeps the smallest positively sized
// one so thumbnail extraction reads as little data as possible.
package manifest
