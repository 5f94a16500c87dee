// SPDX-License-Identifier: EPL-2.0

package edit

import (
	"errors"
	"fmt"
	"math"

	"github.com/ik5/audclip/audio"
)

// DefaultNormalizeTarget is the peak level Normalize scales to by default.
const DefaultNormalizeTarget = 0.95

// PeakAmplitude returns the largest absolute sample across all channels.
func PeakAmplitude(b *audio.Buffer) float32 {
	var peak float32
	for ch := range b.NumberOfChannels() {
		for _, v := range b.Channel(ch) {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
	}

	return peak
}

// NormalizeGain returns the factor that brings the peak of b to target.
// It fails with audio.ErrDegenerateSignal when b is silent.
func NormalizeGain(b *audio.Buffer, target float64) (float32, error) {
	if math.IsNaN(target) || target <= 0 || target > 1 {
		return 0, fmt.Errorf("%w: normalize target %v not in (0, 1]", audio.ErrRange, target)
	}

	peak := PeakAmplitude(b)
	if peak == 0 {
		return 0, audio.ErrDegenerateSignal
	}

	return float32(target / float64(peak)), nil
}

// Normalize scales every sample of b in place so the peak equals target.
// A silent buffer is left untouched.
func Normalize(b *audio.Buffer, target float64) error {
	gain, err := NormalizeGain(b, target)
	if errors.Is(err, audio.ErrDegenerateSignal) {
		return nil
	}
	if err != nil {
		return err
	}

	for ch := range b.NumberOfChannels() {
		data := b.Channel(ch)
		for i := range data {
			data[i] *= gain
		}
	}

	return nil
}
