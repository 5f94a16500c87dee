// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV audio files.
//
// # Decoding
//
// Decoder reads integer PCM WAV files (8, 16, 24 or 32 bits, any channel
// count, chunks in any order) through github.com/go-audio/wav and returns
// an audio.Source of float32 samples in [-1, 1]:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.ReadAll(audio.HeapAllocator{}, src)
//
// Inputs that cannot seek are buffered in memory first.
//
// # Encoding
//
// Encode and EncodeTo write the canonical 44-byte header followed by
// interleaved 16-bit little-endian frames. The output is bit-exact and
// always EncodedSize(b) = 44 + length*channels*2 bytes long:
//
//	data, err := wav.Encode(buf)
//
// Samples are clamped to [-1, 1], then negative values are scaled by 32768
// and the rest by 32767, truncating toward zero. Decoding applies the
// inverse, so a round trip differs from the input by less than 1/32767.
package wav
