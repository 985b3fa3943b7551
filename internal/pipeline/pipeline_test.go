package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/thumbmaster/internal/config"
	"github.com/backmassage/thumbmaster/internal/duration"
	"github.com/backmassage/thumbmaster/internal/logging"
	"github.com/backmassage/thumbmaster/internal/manifest"
	"github.com/backmassage/thumbmaster/internal/naming"
	"github.com/backmassage/thumbmaster/internal/term"
)

// --- Fakes ---

type extractCall struct {
	url, out string
	seek     float64
}

// fakeExtractor writes a small file for every call unless the URL is in fail,
// in which case it leaves a partial file behind and returns an error.
type fakeExtractor struct {
	calls []extractCall
	fail  map[string]bool
}

func (f *fakeExtractor) ExtractFrame(_ context.Context, url, out string, seek float64) error {
	f.calls = append(f.calls, extractCall{url: url, out: out, seek: seek})
	if f.fail[url] {
		_ = os.WriteFile(out, []byte("partial"), 0o644)
		return errors.New("ffmpeg: exit status 1 (http client error): 404 Not Found")
	}
	return os.WriteFile(out, []byte("jpeg:"+url), 0o644)
}

// failingExtractor returns an error without ever opening the output, like
// ffmpeg failing to connect.
type failingExtractor struct {
	calls int
}

func (f *failingExtractor) ExtractFrame(context.Context, string, string, float64) error {
	f.calls++
	return errors.New("ffmpeg: exit status 1 (connection refused)")
}

type fakeProber struct {
	d   float64
	err error
}

func (p fakeProber) Duration(context.Context, string) (float64, error) { return p.d, p.err }

// --- Helpers ---

func testRunner(t *testing.T, mutate func(c *config.Config), ext Extractor, strategies ...duration.Strategy) (*Runner, string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.OutputDir = filepath.Join(t.TempDir(), "thumbs")
	if mutate != nil {
		mutate(&cfg)
	}
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	resolver := duration.NewResolver(cfg.FallbackSeek, strategies...)
	return NewRunner(&cfg, log, resolver, ext), cfg.OutputDir
}

func rec(id, url, title string, size int64) manifest.VideoRecord {
	return manifest.VideoRecord{Identifier: id, URL: url, Title: title, Size: manifest.Size(size)}
}

func mustRun(t *testing.T, r *Runner, records []manifest.VideoRecord) RunStats {
	t.Helper()
	stats, err := r.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return stats
}

// --- Runner tests ---

func TestRun_ExtractsAndIsIdempotent(t *testing.T) {
	ext := &fakeExtractor{}
	r, out := testRunner(t, nil, ext, duration.TitleStrategy{})
	records := []manifest.VideoRecord{
		rec("a", "https://x/a.mp4", "Clip (10m 0s, 1080p)", 100),
		rec("b", "https://x/b.mp4", "No duration here", 100),
	}

	stats := mustRun(t, r, records)
	if stats.Succeeded != 2 || stats.Failed != 0 || stats.Skipped != 0 {
		t.Fatalf("first run stats = %+v", stats)
	}
	if stats.FromTitle != 1 || stats.FromFallback != 1 {
		t.Errorf("source counts = title %d, fallback %d", stats.FromTitle, stats.FromFallback)
	}
	for _, id := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(out, id+".jpg")); err != nil {
			t.Errorf("missing thumbnail for %s: %v", id, err)
		}
	}
	if stats.OutputBytes == 0 {
		t.Error("OutputBytes should count written thumbnails")
	}

	before, _ := os.ReadFile(filepath.Join(out, "a.jpg"))
	stats = mustRun(t, r, records)
	if stats.Succeeded != 0 || stats.SkippedExisting != 2 {
		t.Errorf("second run stats = %+v", stats)
	}
	if len(ext.calls) != 2 {
		t.Errorf("extractor called %d times over two runs, want 2", len(ext.calls))
	}
	after, _ := os.ReadFile(filepath.Join(out, "a.jpg"))
	if string(before) != string(after) {
		t.Error("existing thumbnail was modified")
	}
}

func TestRun_SeekPoints(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		prober   fakeProber
		wantSeek float64
		wantSrc  func(s RunStats) int
	}{
		{"title", "Talk (14m 1s, 720p)", fakeProber{err: errors.New("unused")}, 420.5, func(s RunStats) int { return s.FromTitle }},
		{"title with hours", "Long (1h 2m 3s, 1080p)", fakeProber{}, 1861.5, func(s RunStats) int { return s.FromTitle }},
		{"probe", "untitled", fakeProber{d: 125.0}, 62.5, func(s RunStats) int { return s.FromProbe }},
		{"fallback", "untitled", fakeProber{err: errors.New("timeout")}, 30, func(s RunStats) int { return s.FromFallback }},
		{"zero probe falls back", "untitled", fakeProber{d: 0}, 30, func(s RunStats) int { return s.FromFallback }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &fakeExtractor{}
			r, _ := testRunner(t, nil, ext, duration.TitleStrategy{}, duration.ProbeStrategy{Prober: tt.prober})
			stats := mustRun(t, r, []manifest.VideoRecord{rec("v", "https://x/v.mp4", tt.title, 1)})
			if len(ext.calls) != 1 {
				t.Fatalf("extractor calls = %d", len(ext.calls))
			}
			if got := ext.calls[0].seek; got != tt.wantSeek {
				t.Errorf("seek = %v, want %v", got, tt.wantSeek)
			}
			if tt.wantSrc(stats) != 1 {
				t.Errorf("source not counted: %+v", stats)
			}
		})
	}
}

func TestRun_InvalidRecordsSkipped(t *testing.T) {
	ext := &fakeExtractor{}
	r, _ := testRunner(t, nil, ext)
	stats := mustRun(t, r, []manifest.VideoRecord{
		rec("", "https://x/anon.mp4", "no id", 1),
		rec("nourl", "", "no url", 1),
		rec("ok", "https://x/ok.mp4", "fine", 1),
	})
	if stats.SkippedInvalid != 2 || stats.Skipped != 2 {
		t.Errorf("skipped = %d (invalid %d), want 2", stats.Skipped, stats.SkippedInvalid)
	}
	if stats.Succeeded != 1 || len(ext.calls) != 1 {
		t.Errorf("succeeded = %d, calls = %d", stats.Succeeded, len(ext.calls))
	}
}

func TestRun_DeduplicatesBeforeExtracting(t *testing.T) {
	ext := &fakeExtractor{}
	r, _ := testRunner(t, nil, ext)
	stats := mustRun(t, r, []manifest.VideoRecord{
		rec("v1", "https://x/large.mp4", "", 500),
		rec("v1", "https://x/small.mp4", "", 200),
	})
	if stats.Entries != 2 || stats.Total != 1 {
		t.Errorf("entries/total = %d/%d, want 2/1", stats.Entries, stats.Total)
	}
	if len(ext.calls) != 1 || ext.calls[0].url != "https://x/small.mp4" {
		t.Errorf("calls = %+v, want only the smaller variant", ext.calls)
	}
}

func TestRun_FailureRemovesPartialAndRetries(t *testing.T) {
	ext := &fakeExtractor{fail: map[string]bool{"https://x/bad.mp4": true}}
	r, out := testRunner(t, nil, ext)
	records := []manifest.VideoRecord{
		rec("good", "https://x/good.mp4", "", 1),
		rec("bad", "https://x/bad.mp4", "", 1),
	}

	stats := mustRun(t, r, records)
	if stats.Succeeded != 1 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(out, "bad.jpg")); !os.IsNotExist(err) {
		t.Errorf("partial output should be removed, stat err = %v", err)
	}

	ext.fail = nil
	ext.calls = nil
	stats = mustRun(t, r, records)
	if stats.Succeeded != 1 || stats.SkippedExisting != 1 {
		t.Errorf("retry stats = %+v", stats)
	}
	if len(ext.calls) != 1 || ext.calls[0].url != "https://x/bad.mp4" {
		t.Errorf("retry calls = %+v, want only the failed video", ext.calls)
	}
}

func TestRun_Force(t *testing.T) {
	ext := &fakeExtractor{}
	r, out := testRunner(t, func(c *config.Config) { c.Force = true }, ext)
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, "v.jpg"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	stats := mustRun(t, r, []manifest.VideoRecord{rec("v", "https://x/v.mp4", "", 1)})
	if stats.Succeeded != 1 || len(ext.calls) != 1 {
		t.Errorf("force should re-extract: stats = %+v", stats)
	}
}

func TestRun_ForceFailureKeepsExisting(t *testing.T) {
	ext := &failingExtractor{}
	r, out := testRunner(t, func(c *config.Config) { c.Force = true }, ext)
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(out, "v.jpg")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	stats := mustRun(t, r, []manifest.VideoRecord{rec("v", "https://x/dead.mp4", "", 1)})
	if stats.Failed != 1 || ext.calls != 1 {
		t.Fatalf("stats = %+v, calls = %d", stats, ext.calls)
	}
	b, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("existing thumbnail removed: %v", err)
	}
	if string(b) != "old" {
		t.Errorf("existing thumbnail = %q, want untouched", b)
	}
}

func TestRun_DryRun(t *testing.T) {
	ext := &fakeExtractor{}
	r, out := testRunner(t, func(c *config.Config) { c.DryRun = true }, ext, duration.TitleStrategy{})
	stats := mustRun(t, r, []manifest.VideoRecord{rec("v", "https://x/v.mp4", "T (2m 0s, 480p)", 1)})
	if len(ext.calls) != 0 {
		t.Errorf("dry run invoked extractor %d times", len(ext.calls))
	}
	if stats.Succeeded != 1 || stats.FromTitle != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(out, "v.jpg")); !os.IsNotExist(err) {
		t.Error("dry run wrote a thumbnail")
	}
}

func TestRun_SanitizesIdentifier(t *testing.T) {
	ext := &fakeExtractor{}
	r, out := testRunner(t, nil, ext)
	mustRun(t, r, []manifest.VideoRecord{rec("a/b", "https://x/ab.mp4", "", 1)})
	if len(ext.calls) != 1 || ext.calls[0].out != filepath.Join(out, naming.FileName("a/b")) {
		t.Errorf("calls = %+v", ext.calls)
	}
	if filepath.Dir(ext.calls[0].out) != out {
		t.Errorf("thumbnail written outside output directory: %s", ext.calls[0].out)
	}
}

func TestRun_SanitizedIdentifiersDoNotCollide(t *testing.T) {
	ext := &fakeExtractor{}
	r, _ := testRunner(t, nil, ext)
	stats := mustRun(t, r, []manifest.VideoRecord{
		rec("a/b", "https://x/slash.mp4", "", 1),
		rec("a_b", "https://x/underscore.mp4", "", 1),
	})
	if stats.Succeeded != 2 || stats.SkippedExisting != 0 {
		t.Errorf("stats = %+v, want both extracted", stats)
	}
	if len(ext.calls) != 2 || ext.calls[0].out == ext.calls[1].out {
		t.Errorf("calls = %+v, want two distinct outputs", ext.calls)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ext := &fakeExtractor{}
	r, _ := testRunner(t, nil, ext)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := r.Run(ctx, []manifest.VideoRecord{rec("v", "https://x/v.mp4", "", 1)})
	if err != nil {
		t.Fatal(err)
	}
	if len(ext.calls) != 0 || stats.Attempted() != 0 {
		t.Errorf("cancelled run processed videos: %+v", stats)
	}
}

func TestRun_EmptyManifest(t *testing.T) {
	r, out := testRunner(t, nil, &fakeExtractor{})
	stats := mustRun(t, r, nil)
	if stats.Total != 0 {
		t.Errorf("Total = %d", stats.Total)
	}
	if fi, err := os.Stat(out); err != nil || !fi.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
	if !filepath.IsAbs(stats.OutputDir) {
		t.Errorf("OutputDir = %q, want absolute", stats.OutputDir)
	}
}

func TestRun_LogFileHasNoColorCodes(t *testing.T) {
	t.Cleanup(func() { term.Configure(config.ColorNever) })
	logFile := filepath.Join(t.TempDir(), "run.log")
	r, _ := testRunner(t, func(c *config.Config) {
		c.ColorMode = config.ColorAlways
		c.LogFile = logFile
	}, &fakeExtractor{})
	mustRun(t, r, []manifest.VideoRecord{rec("v", "https://x/v.mp4", "", 1)})
	r.log.Close()

	b, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Successful:") {
		t.Fatalf("summary missing from log file:\n%s", b)
	}
	if strings.Contains(string(b), "\x1b") || strings.Contains(string(b), "\\u001b") {
		t.Errorf("log file contains ANSI escapes:\n%s", b)
	}
}

func TestDisplayTitle(t *testing.T) {
	long := "0123456789012345678901234567890123456789012345678901234567890123456789"
	tests := []struct {
		v    manifest.VideoRecord
		want string
	}{
		{manifest.VideoRecord{Identifier: "id", Title: "Short"}, "Short"},
		{manifest.VideoRecord{Identifier: "id", Title: long}, long[:60] + "..."},
		{manifest.VideoRecord{Identifier: "id", Filename: "clip.mp4"}, "clip.mp4"},
		{manifest.VideoRecord{Identifier: "id"}, "id"},
	}
	for _, tt := range tests {
		if got := displayTitle(tt.v); got != tt.want {
			t.Errorf("displayTitle(%+v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
