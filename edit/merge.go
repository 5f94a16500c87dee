// SPDX-License-Identifier: EPL-2.0

package edit

import (
	"fmt"
	"strings"

	"github.com/ik5/audclip/audio"
)

// ChannelPolicy decides how Merge treats inputs with fewer channels than
// the widest input.
type ChannelPolicy int

const (
	// FillSilence zero-fills the channels an input lacks.
	FillSilence ChannelPolicy = iota
	// RejectMismatch fails with audio.ErrChannelMismatch unless every input
	// has the same channel count.
	RejectMismatch
)

func (p ChannelPolicy) String() string {
	switch p {
	case FillSilence:
		return "fill"
	case RejectMismatch:
		return "reject"
	default:
		return fmt.Sprintf("ChannelPolicy(%d)", int(p))
	}
}

// ParseChannelPolicy accepts "fill" or "reject".
func ParseChannelPolicy(s string) (ChannelPolicy, error) {
	switch strings.ToLower(s) {
	case "fill", "":
		return FillSilence, nil
	case "reject":
		return RejectMismatch, nil
	default:
		return 0, fmt.Errorf("%w: unknown channel policy %q", audio.ErrRange, s)
	}
}

// Merge concatenates buffers in order with the FillSilence policy.
func Merge(alloc audio.Allocator, buffers []*audio.Buffer, sampleRate int) (*audio.Buffer, error) {
	return MergeWith(alloc, buffers, sampleRate, FillSilence)
}

// MergeWith concatenates buffers in order into a buffer labelled sampleRate
// with as many channels as the widest input. Samples are copied as they are,
// whatever rate an input was recorded at, so the output length is always the
// sum of the input lengths. Use MergeResampled to convert rates first.
func MergeWith(alloc audio.Allocator, buffers []*audio.Buffer, sampleRate int, policy ChannelPolicy) (*audio.Buffer, error) {
	channels, err := mergeChannels(buffers, sampleRate, policy)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, b := range buffers {
		total += b.Length()
	}

	out, err := alloc.Alloc(channels, total, sampleRate)
	if err != nil {
		return nil, err
	}

	offset := 0
	for _, b := range buffers {
		// Channels past b.NumberOfChannels() keep the allocator's silence.
		for ch := range b.NumberOfChannels() {
			copy(out.Channel(ch)[offset:], b.Channel(ch))
		}
		offset += b.Length()
	}

	return out, nil
}

// MergeResampled is MergeWith for inputs recorded at different rates: every
// input whose rate differs from sampleRate goes through audio.Resample before
// being joined, so each keeps its duration.
func MergeResampled(alloc audio.Allocator, buffers []*audio.Buffer, sampleRate int, policy ChannelPolicy) (*audio.Buffer, error) {
	if _, err := mergeChannels(buffers, sampleRate, policy); err != nil {
		return nil, err
	}

	inputs := make([]*audio.Buffer, len(buffers))
	for i, b := range buffers {
		if b.SampleRate() != sampleRate {
			converted, err := audio.Resample(alloc, b, sampleRate)
			if err != nil {
				return nil, fmt.Errorf("resample input %d: %w", i, err)
			}
			b = converted
		}
		inputs[i] = b
	}

	return MergeWith(alloc, inputs, sampleRate, policy)
}

// mergeChannels validates the merge arguments and returns the output
// channel count.
func mergeChannels(buffers []*audio.Buffer, sampleRate int, policy ChannelPolicy) (int, error) {
	if len(buffers) == 0 {
		return 0, fmt.Errorf("%w: nothing to merge", audio.ErrRange)
	}
	if sampleRate < 1 {
		return 0, fmt.Errorf("%w: sample rate %d", audio.ErrInvalidFormat, sampleRate)
	}
	if policy != FillSilence && policy != RejectMismatch {
		return 0, fmt.Errorf("%w: %v", audio.ErrRange, policy)
	}

	channels := 0
	for _, b := range buffers {
		channels = max(channels, b.NumberOfChannels())
	}

	if policy == RejectMismatch {
		for i, b := range buffers {
			if b.NumberOfChannels() != channels {
				return 0, fmt.Errorf("%w: input %d has %d channels, want %d",
					audio.ErrChannelMismatch, i, b.NumberOfChannels(), channels)
			}
		}
	}

	return channels, nil
}
