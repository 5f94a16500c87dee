// SPDX-License-Identifier: EPL-2.0

// Package peaks reduces an audio.Buffer to per-bucket min/max pairs for
// waveform overviews.
package peaks

import (
	"fmt"

	"github.com/ik5/audclip/audio"
)

// DefaultCount is the number of buckets a waveform overview usually needs.
const DefaultCount = 1000

// Peak is the sample range of one bucket. Min <= 0 <= Max always holds,
// since both start at zero.
type Peak struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Calculate splits every channel into count buckets of floor(length/count)
// samples and reports each bucket's extremes. The result is indexed
// [channel][bucket]. Samples past count*bucketSize are not scanned, and
// when the buffer is shorter than count every bucket is empty and reports
// zero.
func Calculate(b *audio.Buffer, count int) ([][]Peak, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: peak count %d", audio.ErrRange, count)
	}

	length := b.Length()
	bucket := length / count

	out := make([][]Peak, b.NumberOfChannels())
	for ch := range out {
		data := b.Channel(ch)
		peaks := make([]Peak, count)

		for i := range peaks {
			start := i * bucket
			end := min(start+bucket, length)

			var p Peak
			for _, v := range data[start:end] {
				if v > p.Max {
					p.Max = v
				}
				if v < p.Min {
					p.Min = v
				}
			}
			peaks[i] = p
		}

		out[ch] = peaks
	}

	return out, nil
}
