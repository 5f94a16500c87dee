// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Allocator creates the silent buffers returned by transforms. It is an explicit
// handle: create one, pass it to every operation that produces a new buffer
// and reuse it for the lifetime of the editing session.
type Allocator interface {
	Alloc(channels, length, sampleRate int) (*Buffer, error)
}

// HeapAllocator allocates without limits.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(channels, length, sampleRate int) (*Buffer, error) {
	return NewBuffer(channels, length, sampleRate)
}

// LimitAllocator refuses buffers holding more than a fixed number of samples
// across all channels.
type LimitAllocator struct {
	maxSamples int64
}

// NewLimitAllocator returns an allocator capped at maxSamples. A value <= 0
// disables the cap.
func NewLimitAllocator(maxSamples int64) *LimitAllocator {
	return &LimitAllocator{maxSamples: maxSamples}
}

// NewLimitAllocatorSeconds caps buffers at the given duration for the given
// channel count and rate.
func NewLimitAllocatorSeconds(seconds float64, channels, sampleRate int) *LimitAllocator {
	return NewLimitAllocator(int64(seconds * float64(sampleRate) * float64(channels)))
}

func (a *LimitAllocator) MaxSamples() int64 { return a.maxSamples }

func (a *LimitAllocator) Alloc(channels, length, sampleRate int) (*Buffer, error) {
	if a.maxSamples > 0 && int64(channels)*int64(length) > a.maxSamples {
		return nil, fmt.Errorf("%w: %d channels x %d samples > %d",
			ErrAllocLimit, channels, length, a.maxSamples)
	}

	return NewBuffer(channels, length, sampleRate)
}

// AllocLike allocates a buffer with the channel count and rate of b.
func AllocLike(alloc Allocator, b *Buffer, length int) (*Buffer, error) {
	return alloc.Alloc(b.NumberOfChannels(), length, b.SampleRate())
}
