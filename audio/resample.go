// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Resample converts b to rate with the cubic Resampler and returns a newly
// owned buffer. When the rates already match the result is a copy.
func Resample(alloc Allocator, b *Buffer, rate int) (*Buffer, error) {
	if rate < 1 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, rate)
	}

	if rate == b.SampleRate() {
		out, err := AllocLike(alloc, b, b.Length())
		if err != nil {
			return nil, err
		}
		for ch := range b.channels {
			copy(out.channels[ch], b.channels[ch])
		}
		return out, nil
	}

	if b.Length() == 0 {
		return alloc.Alloc(b.NumberOfChannels(), 0, rate)
	}

	return ReadAll(alloc, NewResampler(NewBufferSource(b), rate))
}
