// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files with github.com/mewkiz/flac.
//
// Frames are decoded one at a time; samples of a frame that do not fit the
// caller's buffer are kept for the next read.
package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audclip/audio"
)

// frameParser is the part of flac.Stream a source uses.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	scale      float32

	cur *frame.Frame
	pos int // next unread sample index within cur
	eof bool
}

func newSource(stream frameParser, sampleRate, channels, bitDepth int) (*source, error) {
	if sampleRate < 1 || channels < 1 || bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels, %d bits",
			audio.ErrInvalidFormat, sampleRate, channels, bitDepth)
	}

	return &source{
		stream:     stream,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      float32(uint64(1) << (bitDepth - 1)),
	}, nil
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 * s.channels }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n := 0
	for n < len(dst) {
		if s.cur == nil || s.pos >= int(s.cur.BlockSize) {
			if s.eof {
				break
			}

			f, err := s.stream.ParseNext()
			if errors.Is(err, io.EOF) {
				s.eof = true
				break
			}
			if err != nil {
				return n, fmt.Errorf("flac frame: %w", err)
			}
			if len(f.Subframes) != s.channels {
				return n, fmt.Errorf("%w: frame has %d channels, stream %d",
					audio.ErrChannelMismatch, len(f.Subframes), s.channels)
			}
			s.cur, s.pos = f, 0
			continue
		}

		for ; s.pos < int(s.cur.BlockSize) && n < len(dst); s.pos++ {
			for ch := range s.channels {
				dst[n] = float32(s.cur.Subframes[ch].Samples[s.pos]) / s.scale
				n++
			}
		}
	}

	if s.eof && n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// Decoder decodes native FLAC streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}

	info := stream.Info
	return newSource(stream, int(info.SampleRate), int(info.NChannels), int(info.BitsPerSample))
}
