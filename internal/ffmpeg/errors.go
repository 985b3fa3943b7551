package ffmpeg

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrTimeout is wrapped by the ExecError of a run killed by the extract timeout.
var ErrTimeout = errors.New("ffmpeg timed out")

// stderrSnippetLen is how much of ffmpeg's stderr is surfaced in errors.
const stderrSnippetLen = 200

// ExecError describes a failed ffmpeg run.
type ExecError struct {
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	var b strings.Builder
	b.WriteString("ffmpeg: ")
	b.WriteString(e.Err.Error())
	if label := Classify(e.Stderr); label != "" {
		b.WriteString(" (" + label + ")")
	}
	if s := Snippet(e.Stderr); s != "" {
		b.WriteString(": " + s)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error { return e.Err }

// Snippet returns the first 200 characters of stderr on one line.
func Snippet(stderr string) string {
	s := strings.TrimSpace(stderr)
	if utf8.RuneCountInString(s) > stderrSnippetLen {
		s = string([]rune(s)[:stderrSnippetLen])
	}
	return strings.Join(strings.Fields(s), " ")
}

// Pre-compiled patterns for labelling ffmpeg stderr. Checked in order by
// [Classify]; the first match wins.
var stderrClasses = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`Server returned (4\d\d|4XX)`), "http client error"},
	{regexp.MustCompile(`Server returned (5\d\d|5XX)`), "http server error"},
	{regexp.MustCompile(`(?i)Connection refused`), "connection refused"},
	{regexp.MustCompile(`(?i)Failed to resolve hostname|Name or service not known|nodename nor servname`), "host not found"},
	{regexp.MustCompile(`(?i)Connection timed out|Operation timed out`), "network timeout"},
	{regexp.MustCompile(`(?i)No such file or directory`), "not found"},
	{regexp.MustCompile(`(?i)Permission denied`), "permission denied"},
	{regexp.MustCompile(`(?i)Invalid data found when processing input|moov atom not found`), "invalid media"},
	{regexp.MustCompile(`(?i)does not contain any stream|Output file #0 does not contain`), "no video stream"},
	{regexp.MustCompile(`(?i)Output file is empty, nothing was encoded`), "seek past end"},
}

// Classify returns a short label for a recognized failure in ffmpeg's
// stderr, or "" when nothing matches.
func Classify(stderr string) string {
	for _, c := range stderrClasses {
		if c.re.MatchString(stderr) {
			return c.label
		}
	}
	return ""
}
