// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audclip/audio"
)

// Config describes the stream a backend must produce.
type Config struct {
	Format     Format
	Quality    Quality
	Bitrate    int // bits per second, 0 for lossless
	SampleRate int
	Channels   int
}

// Sink receives encoded bytes. The adapter copies every Write, so backends
// may reuse their buffers.
type Sink interface {
	io.Writer
}

// Backend compresses PCM. Encode must read pcm to the end and write all
// output to sink before returning.
type Backend interface {
	Encode(ctx context.Context, pcm *PCMReader, cfg Config, sink Sink) error
}

// RateConstrained is implemented by backends that only accept some sample
// rates. NativeRate maps the buffer's rate to the one to resample to.
type RateConstrained interface {
	NativeRate(sampleRate int) int
}

// Adapter runs a Backend against buffers.
type Adapter struct {
	backend Backend
	alloc   audio.Allocator
	log     logrus.FieldLogger
	timeout time.Duration
	depth   int
}

type Option func(*Adapter)

// WithAllocator sets the allocator used when the backend needs resampled
// input.
func WithAllocator(alloc audio.Allocator) Option {
	return func(a *Adapter) { a.alloc = alloc }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Adapter) { a.log = log }
}

// WithTimeout bounds every encode started by the adapter. Zero means no
// limit beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

// WithChunkBuffer sets how many chunks may wait on Stream.Chunks before the
// backend blocks.
func WithChunkBuffer(n int) Option {
	return func(a *Adapter) { a.depth = max(n, 0) }
}

func NewAdapter(backend Backend, opts ...Option) *Adapter {
	a := &Adapter{
		backend: backend,
		alloc:   audio.HeapAllocator{},
		log:     logrus.StandardLogger(),
		depth:   16,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Stream is one running encode.
type Stream struct {
	// Chunks delivers encoded bytes in order and is closed before the
	// stream completes.
	Chunks <-chan []byte

	done   chan struct{}
	cancel context.CancelFunc
	err    error
	frames int
}

// Done is closed once the encode has finished and Chunks is closed.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Wait blocks until the stream completes and returns its result. Chunks
// must be drained, or the stream cancelled, for Wait to return.
func (s *Stream) Wait() error {
	<-s.done
	return s.err
}

// Cancel aborts the encode. Pending chunks are dropped.
func (s *Stream) Cancel() { s.cancel() }

// FramesEncoded is the number of PCM frames the backend consumed. It is
// valid after Done.
func (s *Stream) FramesEncoded() int {
	<-s.done
	return s.frames
}

type chunkSink struct {
	ctx   context.Context
	out   chan<- []byte
	bytes int
}

func (c *chunkSink) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	chunk := make([]byte, len(p))
	copy(chunk, p)

	select {
	case c.out <- chunk:
		c.bytes += len(p)
		return len(p), nil
	case <-c.ctx.Done():
		return 0, c.ctx.Err()
	}
}

// Start begins encoding b in the background.
func (a *Adapter) Start(ctx context.Context, b *audio.Buffer, format Format, quality Quality) *Stream {
	var cancel context.CancelFunc
	if a.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	chunks := make(chan []byte, a.depth)
	s := &Stream{
		Chunks: chunks,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(s.done)
		defer close(chunks)
		defer cancel()

		s.err = a.run(ctx, b, format, quality, chunks, &s.frames)
	}()

	return s
}

func (a *Adapter) run(ctx context.Context, b *audio.Buffer, format Format, quality Quality,
	chunks chan<- []byte, frames *int,
) error {
	log := a.log.WithFields(logrus.Fields{
		"format":   format.String(),
		"quality":  quality.String(),
		"rate":     b.SampleRate(),
		"channels": b.NumberOfChannels(),
		"frames":   b.Length(),
	})
	start := time.Now()

	src := b
	if rc, ok := a.backend.(RateConstrained); ok {
		if rate := rc.NativeRate(b.SampleRate()); rate != b.SampleRate() {
			log.WithField("native_rate", rate).Debug("resampling for encoder")

			converted, err := audio.Resample(a.alloc, b, rate)
			if err != nil {
				return fmt.Errorf("resample to %d Hz: %w", rate, err)
			}
			src = converted
		}
	}

	pcm := NewPCMReader(src)
	cfg := Config{
		Format:     format,
		Quality:    quality,
		Bitrate:    quality.Bitrate(format),
		SampleRate: src.SampleRate(),
		Channels:   src.NumberOfChannels(),
	}
	sink := &chunkSink{ctx: ctx, out: chunks}

	err := a.backend.Encode(ctx, pcm, cfg, sink)
	*frames = pcm.FramesRead()

	if err == nil && pcm.Remaining() > 0 {
		err = fmt.Errorf("%w: backend consumed %d of %d frames",
			audio.ErrEncodeIncomplete, pcm.FramesRead(), pcm.Frames())
	}
	if err != nil {
		log.WithError(err).Error("encode failed")
		return err
	}

	log.WithFields(logrus.Fields{
		"bytes":   sink.bytes,
		"elapsed": time.Since(start).String(),
	}).Debug("encode finished")

	return nil
}

// Collect drains stream into one slice. It returns only after the stream
// completed, so a nil error means every chunk is included.
func Collect(ctx context.Context, s *Stream) ([]byte, error) {
	var out []byte

	for {
		select {
		case chunk, ok := <-s.Chunks:
			if !ok {
				if err := s.Wait(); err != nil {
					return nil, err
				}
				return out, nil
			}
			out = append(out, chunk...)
		case <-ctx.Done():
			s.Cancel()
			// Drain so the producer can reach its terminal signal.
			for range s.Chunks {
			}
			_ = s.Wait()
			return nil, ctx.Err()
		}
	}
}
