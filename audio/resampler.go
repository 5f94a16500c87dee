// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audclip/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves channel count.
// There is no anti-aliasing filter: downsampling folds content above the new
// Nyquist frequency back into the band.
type Resampler struct {
	src      Source
	srcRate  int64
	dstRate  int64
	channels int

	// Sliding window for cubic interpolation:
	// win[0] = t-1, win[1] = t0, win[2] = t+1, win[3] = t+2.
	// live[i] is false when win[i] duplicates its neighbour past the end.
	win  [4][]float32
	live [4]bool

	// Output frames produced so far and the source index held in win[1].
	// Positions are derived from out exactly, so long streams do not drift.
	out  int64
	base int64

	in      []float32
	inPos   int
	inLen   int
	srcDone bool

	started bool
	done    bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		srcRate:  int64(src.SampleRate()),
		dstRate:  int64(dstRate),
		channels: channels,
		in:       make([]float32, 1024*channels),
	}

	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// nextFrame copies the next source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	empty := 0

	for r.inPos >= r.inLen {
		if r.srcDone {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inLen = n - n%r.channels
		r.inPos = 0

		if err == io.EOF {
			r.srcDone = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}

		if n == 0 && !r.srcDone {
			empty++
			if empty >= maxEmptyReads {
				return false, io.ErrNoProgress
			}
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	return true, nil
}

// load fills win[i] from the source, or duplicates win[i-1] past the end.
func (r *Resampler) load(i int) error {
	ok, err := r.nextFrame(r.win[i])
	if err != nil {
		return err
	}

	r.live[i] = ok
	if !ok {
		copy(r.win[i], r.win[i-1])
	}

	return nil
}

func (r *Resampler) start() error {
	r.started = true

	ok, err := r.nextFrame(r.win[1])
	if err != nil {
		return err
	}
	if !ok {
		r.done = true
		return nil
	}

	copy(r.win[0], r.win[1])
	r.live[0], r.live[1] = true, true

	if err := r.load(2); err != nil {
		return err
	}

	return r.load(3)
}

func (r *Resampler) advance() error {
	first := r.win[0]
	r.win[0], r.win[1], r.win[2] = r.win[1], r.win[2], r.win[3]
	r.live[0], r.live[1], r.live[2] = r.live[1], r.live[2], r.live[3]
	r.win[3] = first

	return r.load(3)
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.started {
		if err := r.start(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for !r.done && written < framesNeeded {
		scaled := r.out * r.srcRate
		for target := scaled / r.dstRate; r.base < target && r.live[1]; r.base++ {
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.live[1] {
			r.done = true
			break
		}

		alpha := float32(float64(scaled%r.dstRate) / float64(r.dstRate))
		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], alpha)
		}

		written++
		r.out++
	}

	if r.done {
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}
