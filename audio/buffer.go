// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// Buffer is in-memory multichannel PCM audio with a fixed sample rate.
//
// Samples are float32 in [-1, 1], stored one slice per channel. Every channel
// has the same length. A Buffer is not safe for concurrent mutation; callers
// must not write to it while another operation reads it.
type Buffer struct {
	sampleRate int
	channels   [][]float32
}

// NewBuffer allocates a silent buffer with the given shape.
func NewBuffer(channels, length, sampleRate int) (*Buffer, error) {
	if channels < 1 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: channels=%d sampleRate=%d", ErrInvalidFormat, channels, sampleRate)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrRange, length)
	}

	// One backing array keeps the channels contiguous.
	backing := make([]float32, channels*length)
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = backing[ch*length : (ch+1)*length : (ch+1)*length]
	}

	return &Buffer{sampleRate: sampleRate, channels: data}, nil
}

// NewBufferFromChannels wraps existing per-channel slices without copying.
// The buffer takes ownership of the slices.
func NewBufferFromChannels(sampleRate int, channels ...[]float32) (*Buffer, error) {
	if len(channels) == 0 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: channels=%d sampleRate=%d", ErrInvalidFormat, len(channels), sampleRate)
	}

	length := len(channels[0])
	for ch, data := range channels {
		if len(data) != length {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrChannelMismatch, ch, len(data), length)
		}
	}

	return &Buffer{sampleRate: sampleRate, channels: channels}, nil
}

func (b *Buffer) SampleRate() int       { return b.sampleRate }
func (b *Buffer) NumberOfChannels() int { return len(b.channels) }
func (b *Buffer) Length() int           { return len(b.channels[0]) }

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Length()) / float64(b.sampleRate)
}

// TimeDuration is Duration as a time.Duration.
func (b *Buffer) TimeDuration() time.Duration {
	return time.Duration(b.Duration() * float64(time.Second))
}

// Channel returns the live sample slice of channel ch. Writes through it
// modify the buffer.
func (b *Buffer) Channel(ch int) []float32 {
	return b.channels[ch]
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	out, _ := NewBuffer(b.NumberOfChannels(), b.Length(), b.sampleRate)
	for ch := range b.channels {
		copy(out.channels[ch], b.channels[ch])
	}

	return out
}

// Equal reports whether b and o have the same shape and identical samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil {
		return false
	}
	if b.sampleRate != o.sampleRate || len(b.channels) != len(o.channels) || b.Length() != o.Length() {
		return false
	}

	for ch := range b.channels {
		for i, v := range b.channels[ch] {
			if o.channels[ch][i] != v {
				return false
			}
		}
	}

	return true
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer{channels=%d rate=%d length=%d}", b.NumberOfChannels(), b.sampleRate, b.Length())
}
