// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidFormat reports a channel count or sample rate that cannot
	// describe a buffer.
	ErrInvalidFormat = errors.New("invalid channel count or sample rate")

	// ErrRange reports an out-of-bounds time range or parameter, such as a
	// trim with start >= end.
	ErrRange = errors.New("value out of range")

	// ErrDegenerateSignal reports an operation that is undefined for an
	// all-zero signal. Normalization treats it as a no-op.
	ErrDegenerateSignal = errors.New("degenerate (silent) signal")

	// ErrChannelMismatch reports inputs with inconsistent channel counts
	// under a policy that refuses to reconcile them.
	ErrChannelMismatch = errors.New("channel count mismatch")

	// ErrDecode wraps failures of a decoder on malformed input.
	ErrDecode = errors.New("decode failed")

	// ErrEncodeIncomplete reports an encoder that signalled completion
	// before consuming the whole buffer.
	ErrEncodeIncomplete = errors.New("encode finished before all audio was flushed")

	// ErrAllocLimit reports an allocation larger than the allocator permits.
	ErrAllocLimit = errors.New("buffer exceeds allocation limit")
)
