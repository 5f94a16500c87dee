// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample data model shared by every editing,
// analysis and encoding package.
//
// # Buffers
//
// A Buffer is multichannel float32 PCM with a fixed sample rate, stored one
// slice per channel:
//
//	buf, _ := audio.NewBuffer(2, 44100, 44100) // one second of stereo silence
//	left := buf.Channel(0)
//	left[0] = 0.5
//
// Operations that produce a new buffer take an Allocator. Create one per
// editing session and pass it along; HeapAllocator has no limits and
// LimitAllocator caps the size of any single buffer:
//
//	alloc := audio.NewLimitAllocatorSeconds(600, 2, 48000)
//	out, err := audio.Resample(alloc, buf, 48000)
//
// # Streams
//
// Decoders produce a Source, a stream of interleaved samples. ReadAll
// collects a Source into a Buffer and NewBufferSource goes the other way:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(audio.HeapAllocator{}, src)
//
// Resampler and MonoMixer are Sources wrapping other Sources and can be
// chained:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(audio.NewBufferSource(buf), 16000))
//
// # Errors
//
// The sentinel errors in this package (ErrRange, ErrChannelMismatch,
// ErrDecode, ErrEncodeIncomplete, ...) are shared by the other packages and
// are always wrapped, so test them with errors.Is.
package audio
