// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// maxEmptyReads bounds how many consecutive (0, nil) reads ReadAll tolerates.
const maxEmptyReads = 100

// BufferSource streams a Buffer as interleaved samples.
type BufferSource struct {
	buf *Buffer
	pos int
}

func NewBufferSource(b *Buffer) *BufferSource {
	return &BufferSource{buf: b}
}

func (s *BufferSource) SampleRate() int { return s.buf.SampleRate() }
func (s *BufferSource) Channels() int   { return s.buf.NumberOfChannels() }
func (s *BufferSource) BufSize() int    { return 4096 }
func (s *BufferSource) Close() error    { return nil }

// Reset rewinds the stream to the first frame.
func (s *BufferSource) Reset() { s.pos = 0 }

func (s *BufferSource) ReadSamples(dst []float32) (int, error) {
	channels := s.buf.NumberOfChannels()
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := s.buf.Length() - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, remaining)
	for f := range frames {
		base := f * channels
		for ch := range channels {
			dst[base+ch] = s.buf.channels[ch][s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= s.buf.Length() {
		return frames * channels, io.EOF
	}

	return frames * channels, nil
}

// ReadAll drains src into a new buffer obtained from alloc. A trailing
// partial frame is dropped. src is not closed.
func ReadAll(alloc Allocator, src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels < 1 || src.SampleRate() < 1 {
		return nil, fmt.Errorf("%w: channels=%d sampleRate=%d", ErrInvalidFormat, channels, src.SampleRate())
	}

	size := max(src.BufSize(), channels)
	size -= size % channels
	chunk := make([]float32, size)

	data := make([][]float32, channels)
	pending := 0 // samples of an incomplete frame carried from the last read
	empty := 0

	for {
		n, err := src.ReadSamples(chunk[pending:])
		if n > 0 {
			empty = 0
			total := pending + n
			frames := total / channels

			for f := range frames {
				base := f * channels
				for ch := range channels {
					data[ch] = append(data[ch], chunk[base+ch])
				}
			}

			pending = total - frames*channels
			copy(chunk, chunk[frames*channels:total])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
		}
	}

	out, err := alloc.Alloc(channels, len(data[0]), src.SampleRate())
	if err != nil {
		return nil, err
	}
	for ch := range data {
		copy(out.channels[ch], data[ch])
	}

	return out, nil
}
