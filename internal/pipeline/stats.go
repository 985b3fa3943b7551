package pipeline

import (
	"time"

	"github.com/backmassage/thumbmaster/internal/duration"
)

// RunStats tracks aggregate counters for one run. A fresh value is built by
// every call to [Runner.Run].
type RunStats struct {
	Entries int // Manifest entries before deduplication.
	Total   int // Videos considered after deduplication.
	Current int

	Succeeded       int
	Failed          int
	Skipped         int
	SkippedExisting int // Thumbnail already on disk.
	SkippedInvalid  int // Missing URL or identifier.

	// Which tier produced the seek point, for items that reached extraction.
	FromTitle    int
	FromProbe    int
	FromFallback int

	OutputBytes int64
	Elapsed     time.Duration
	OutputDir   string // Absolute output directory.
}

// Attempted returns how many videos reached the extraction step.
func (s *RunStats) Attempted() int {
	return s.Succeeded + s.Failed
}

func (s *RunStats) countSource(src duration.Source) {
	switch src {
	case duration.SourceTitle:
		s.FromTitle++
	case duration.SourceProbe:
		s.FromProbe++
	default:
		s.FromFallback++
	}
}
