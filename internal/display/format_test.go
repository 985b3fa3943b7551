package display

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"typical thumbnail", 18 * 1024, "18.0 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1.5 GiB", 1536 * 1024 * 1024, "1.5 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBytes(tt.bytes); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{30, "30"},
		{2430, "2430"},
		{420.5, "420.5"},
		{1146.5, "1146.5"},
		{0.25, "0.25"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.sec); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00"},
		{841, "14:01"},
		{4860, "1:21:00"},
		{2293.4, "38:13"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.sec); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(850 * time.Millisecond); got != "850ms" {
		t.Errorf("got %q", got)
	}
	if got := FormatElapsed(72*time.Second + 300*time.Millisecond); got != "1m12s" {
		t.Errorf("got %q", got)
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	if !strings.Contains(buf.String(), "|_|") {
		t.Errorf("banner output = %q", buf.String())
	}
}
