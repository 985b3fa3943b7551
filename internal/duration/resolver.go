package duration

import (
	"context"
	"errors"
	"fmt"
)

// Source names the tier that produced a seek point.
type Source string

const (
	SourceTitle    Source = "title"
	SourceProbe    Source = "probe"
	SourceFallback Source = "fallback"
)

// ErrUnknown is returned by a strategy that cannot determine the duration.
var ErrUnknown = errors.New("duration unknown")

// Strategy is one tier of duration lookup.
type Strategy interface {
	Source() Source
	// Duration returns a duration in seconds or an error. A non-positive
	// duration is treated by the Resolver as unknown.
	Duration(ctx context.Context, title, url string) (float64, error)
}

// DurationProber is the subset of probe.Prober used by [ProbeStrategy].
type DurationProber interface {
	Duration(ctx context.Context, url string) (float64, error)
}

// TitleStrategy reads the duration from the manifest title.
type TitleStrategy struct{}

func (TitleStrategy) Source() Source { return SourceTitle }

func (TitleStrategy) Duration(_ context.Context, title, _ string) (float64, error) {
	sec, ok := ParseTitle(title)
	if !ok {
		return 0, fmt.Errorf("%w: no duration in title", ErrUnknown)
	}
	return float64(sec), nil
}

// ProbeStrategy asks ffprobe (or any DurationProber) for the duration of the URL.
type ProbeStrategy struct {
	Prober DurationProber
}

func (ProbeStrategy) Source() Source { return SourceProbe }

func (s ProbeStrategy) Duration(ctx context.Context, _, url string) (float64, error) {
	return s.Prober.Duration(ctx, url)
}

// Attempt records a tier that was tried and passed over.
type Attempt struct {
	Source Source
	Err    error
}

// Resolution is the outcome of [Resolver.Resolve].
type Resolution struct {
	Duration float64 // Seconds; 0 when Source is SourceFallback.
	Seek     float64 // Seconds into the video to grab the frame.
	Source   Source
	Attempts []Attempt // Tiers tried before Source, in order.
}

// Known reports whether a duration was found by some strategy.
func (r Resolution) Known() bool { return r.Source != SourceFallback }

// Resolver tries its strategies in order.
type Resolver struct {
	strategies []Strategy
	fallback   float64
}

// NewResolver returns a resolver over strategies (tried in the given order)
// that falls back to seeking fallback seconds.
func NewResolver(fallback float64, strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, fallback: fallback}
}

// Strategies returns the tier order, for logging.
func (r *Resolver) Strategies() []Source {
	out := make([]Source, 0, len(r.strategies)+1)
	for _, s := range r.strategies {
		out = append(out, s.Source())
	}
	return append(out, SourceFallback)
}

// Fallback returns the seek used when no duration is found.
func (r *Resolver) Fallback() float64 { return r.fallback }

// Resolve returns the seek point for a video: half the first positive
// duration any strategy reports, otherwise the fallback offset as-is.
func (r *Resolver) Resolve(ctx context.Context, title, url string) Resolution {
	var res Resolution
	for _, s := range r.strategies {
		d, err := s.Duration(ctx, title, url)
		if err == nil && d <= 0 {
			err = fmt.Errorf("%w: non-positive duration %v", ErrUnknown, d)
		}
		if err != nil {
			res.Attempts = append(res.Attempts, Attempt{Source: s.Source(), Err: err})
			continue
		}
		res.Duration = d
		res.Seek = d / 2
		res.Source = s.Source()
		return res
	}
	res.Seek = r.fallback
	res.Source = SourceFallback
	return res
}
