// SPDX-License-Identifier: EPL-2.0

package silence

import (
	"fmt"
	"math"
	"slices"

	"github.com/ik5/audclip/audio"
)

// Region is a span [Start, End) in seconds where Channel stayed below the
// threshold.
type Region struct {
	Start   float64
	End     float64
	Channel int
}

func (r Region) Duration() float64 { return r.End - r.Start }

func (r Region) String() string {
	return fmt.Sprintf("[%.3fs, %.3fs) ch%d", r.Start, r.End, r.Channel)
}

// Detect scans every channel for runs of samples with |x| < opts.Threshold
// lasting at least opts.MinDuration. Regions are ordered by channel, then by
// time. A run reaching the end of the buffer is reported too.
func Detect(b *audio.Buffer, opts Options) ([]Region, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rate := float64(b.SampleRate())
	minSamples := opts.MinDuration * rate
	threshold := float32(opts.Threshold)

	var regions []Region
	emit := func(ch, start, end int) {
		if float64(end-start) >= minSamples {
			regions = append(regions, Region{
				Start:   float64(start) / rate,
				End:     float64(end) / rate,
				Channel: ch,
			})
		}
	}

	for ch := range b.NumberOfChannels() {
		start := -1
		for i, v := range b.Channel(ch) {
			if abs32(v) < threshold {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				emit(ch, start, i)
				start = -1
			}
		}
		if start >= 0 {
			emit(ch, start, b.Length())
		}
	}

	return regions, nil
}

// MergeRegions sorts regions by start and coalesces the ones that overlap or
// touch, regardless of channel. A merged region keeps the channel of its
// earliest member. The input slice is left untouched.
func MergeRegions(regions []Region) []Region {
	if len(regions) == 0 {
		return nil
	}

	sorted := slices.Clone(regions)
	slices.SortStableFunc(sorted, func(a, b Region) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})

	merged := []Region{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			last.End = max(last.End, cur.End)
			continue
		}
		merged = append(merged, cur)
	}

	return merged
}

// Remove cuts every merged silent region out of b and returns the remaining
// audio joined end to end. When nothing is silent, b itself is returned.
func Remove(alloc audio.Allocator, b *audio.Buffer, opts Options) (*audio.Buffer, error) {
	regions, err := Detect(b, opts)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return b, nil
	}

	type span struct{ from, to int }

	rate := float64(b.SampleRate())
	length := b.Length()

	var keep []span
	total := 0
	add := func(startSec, endSec float64) {
		from, to := toSample(startSec, rate, length), toSample(endSec, rate, length)
		if to > from {
			keep = append(keep, span{from, to})
			total += to - from
		}
	}

	last := 0.0
	for _, r := range MergeRegions(regions) {
		if r.Start > last {
			add(last, r.Start)
		}
		last = r.End
	}
	if duration := b.Duration(); last < duration {
		add(last, duration)
	}

	out, err := audio.AllocLike(alloc, b, total)
	if err != nil {
		return nil, err
	}

	for ch := range b.NumberOfChannels() {
		src, dst := b.Channel(ch), out.Channel(ch)
		offset := 0
		for _, s := range keep {
			offset += copy(dst[offset:], src[s.from:s.to])
		}
	}

	return out, nil
}

// toSample converts seconds to a frame index. Region bounds are whole frames
// divided by the rate, so the small bias absorbs the division's rounding.
func toSample(sec, rate float64, length int) int {
	return min(int(math.Floor(sec*rate+1e-6)), length)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
