// SPDX-License-Identifier: EPL-2.0

package edit

import (
	"fmt"
	"math"

	"github.com/ik5/audclip/audio"
)

// fadeLength is round(seconds * sampleRate), kept in float64 so any finite
// duration is representable.
func fadeLength(b *audio.Buffer, seconds float64) (float64, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("%w: fade duration %v", audio.ErrRange, seconds)
	}

	return math.Round(seconds * float64(b.SampleRate())), nil
}

// fadeSpan is how many samples of b a fade of n samples covers.
func fadeSpan(b *audio.Buffer, n float64) int {
	if n >= float64(b.Length()) {
		return b.Length()
	}
	return int(n)
}

// FadeIn applies a linear 0→1 ramp over the first seconds of b, in place.
// Sample i of the ramp is scaled by i/fadeLength where
// fadeLength = round(seconds * sampleRate). A zero-length fade is a no-op.
func FadeIn(b *audio.Buffer, seconds float64) error {
	n, err := fadeLength(b, seconds)
	if err != nil || n == 0 {
		return err
	}

	end := fadeSpan(b, n)
	for ch := range b.NumberOfChannels() {
		data := b.Channel(ch)
		for i := range end {
			data[i] *= float32(float64(i) / n)
		}
	}

	return nil
}

// FadeOut applies a linear ramp to the last seconds of b, in place. Sample i
// is scaled by (length-i)/fadeLength, reaching 1/fadeLength at the final
// sample.
func FadeOut(b *audio.Buffer, seconds float64) error {
	n, err := fadeLength(b, seconds)
	if err != nil || n == 0 {
		return err
	}

	length := b.Length()
	start := length - fadeSpan(b, n)
	for ch := range b.NumberOfChannels() {
		data := b.Channel(ch)
		for i := start; i < length; i++ {
			data[i] *= float32(float64(length-i) / n)
		}
	}

	return nil
}
