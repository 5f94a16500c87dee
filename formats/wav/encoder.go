// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/utils"
)

// HeaderSize is the length of the canonical header written by Encode.
const HeaderSize = 44

const (
	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8

	// chunkFrames bounds the scratch buffer EncodeTo writes through.
	chunkFrames = 8192
)

// EncodedSize is the exact number of bytes Encode produces for b.
func EncodedSize(b *audio.Buffer) int64 {
	return HeaderSize + int64(b.Length())*int64(b.NumberOfChannels())*bytesPerSample
}

func header(sampleRate, channels int, dataSize uint32) []byte {
	h := make([]byte, HeaderSize)

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], HeaderSize-8+dataSize)
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(h[20:22], formatPCM)
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(sampleRate*channels*bytesPerSample))
	binary.LittleEndian.PutUint16(h[32:34], uint16(channels*bytesPerSample))
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)

	return h
}

// WriteHeader writes the 44-byte header for frames frames of 16-bit PCM.
// Streaming encoders call it before the sample data; EncodeTo uses it too.
func WriteHeader(w io.Writer, sampleRate, channels, frames int) error {
	if sampleRate < 1 || channels < 1 || frames < 0 {
		return fmt.Errorf("%w: %d Hz, %d channels, %d frames", audio.ErrInvalidFormat, sampleRate, channels, frames)
	}

	dataSize := int64(frames) * int64(channels) * bytesPerSample
	if dataSize > math.MaxUint32-(HeaderSize-8) || channels > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes of samples", ErrTooLarge, dataSize)
	}

	if _, err := w.Write(header(sampleRate, channels, uint32(dataSize))); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	return nil
}

// EncodeTo writes b as a 16-bit PCM WAV: the 44-byte header followed by
// interleaved little-endian frames. Samples are quantized with
// utils.Float32ToInt16.
func EncodeTo(w io.Writer, b *audio.Buffer) error {
	channels := b.NumberOfChannels()
	if err := WriteHeader(w, b.SampleRate(), channels, b.Length()); err != nil {
		return err
	}

	length := b.Length()
	if length == 0 {
		return nil
	}

	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = b.Channel(ch)
	}

	frameSize := channels * bytesPerSample
	buf := make([]byte, min(length, chunkFrames)*frameSize)

	for start := 0; start < length; start += chunkFrames {
		end := min(start+chunkFrames, length)
		chunk := buf[:(end-start)*frameSize]

		pos := 0
		for i := start; i < end; i++ {
			for ch := range channels {
				binary.LittleEndian.PutUint16(chunk[pos:], uint16(utils.Float32ToInt16(data[ch][i])))
				pos += bytesPerSample
			}
		}

		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return nil
}

// Encode returns b as a complete WAV file of exactly EncodedSize(b) bytes.
func Encode(b *audio.Buffer) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(int(EncodedSize(b)))

	if err := EncodeTo(&out, b); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
