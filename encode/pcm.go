// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"io"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/utils"
)

// PCMReader streams a buffer as interleaved signed 16-bit PCM, quantized the
// same way as formats/wav. It serves either little-endian bytes through Read
// or int16 frames through ReadFrames, and counts how much was consumed.
type PCMReader struct {
	data     [][]float32
	rate     int
	channels int
	frames   int
	pos      int // bytes consumed
}

func NewPCMReader(b *audio.Buffer) *PCMReader {
	data := make([][]float32, b.NumberOfChannels())
	for ch := range data {
		data[ch] = b.Channel(ch)
	}

	return &PCMReader{
		data:     data,
		rate:     b.SampleRate(),
		channels: len(data),
		frames:   b.Length(),
	}
}

func (r *PCMReader) SampleRate() int { return r.rate }
func (r *PCMReader) Channels() int   { return r.channels }

// Frames is the total number of frames the reader serves.
func (r *PCMReader) Frames() int { return r.frames }

// FramesRead counts frames delivered completely so far.
func (r *PCMReader) FramesRead() int { return r.pos / r.frameBytes() }

// Remaining reports how many bytes have not been read yet.
func (r *PCMReader) Remaining() int { return r.frames*r.frameBytes() - r.pos }

func (r *PCMReader) frameBytes() int { return r.channels * 2 }

func (r *PCMReader) sample(i int) int16 {
	return utils.Float32ToInt16(r.data[i%r.channels][i/r.channels])
}

// Read fills p with little-endian bytes. It may stop in the middle of a
// sample; the next call continues with its high byte.
func (r *PCMReader) Read(p []byte) (int, error) {
	if r.Remaining() == 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && r.Remaining() > 0 {
		v := uint16(r.sample(r.pos / 2))

		if r.pos%2 == 1 {
			p[n] = byte(v >> 8)
			n++
			r.pos++
			continue
		}

		p[n] = byte(v)
		n++
		r.pos++
		if n < len(p) {
			p[n] = byte(v >> 8)
			n++
			r.pos++
		}
	}

	return n, nil
}

// ReadFrames fills dst with whole interleaved frames and returns how many
// frames it wrote. len(dst) must be a multiple of the channel count. It
// returns io.EOF once everything was read.
func (r *PCMReader) ReadFrames(dst []int16) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if r.pos%r.frameBytes() != 0 {
		return 0, ErrMisaligned
	}
	if r.Remaining() == 0 {
		return 0, io.EOF
	}

	first := r.pos / r.frameBytes()
	frames := min(len(dst)/r.channels, r.frames-first)

	for f := range frames {
		for ch := range r.channels {
			dst[f*r.channels+ch] = utils.Float32ToInt16(r.data[ch][first+f])
		}
	}
	r.pos += frames * r.frameBytes()

	return frames, nil
}
