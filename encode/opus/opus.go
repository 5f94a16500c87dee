// SPDX-License-Identifier: EPL-2.0

// Package opus is an encode.Backend writing Ogg Opus files with libopus
// (gopkg.in/hraban/opus.v2) and the Ogg muxer from pion/webrtc.
//
// Building it needs libopus and pkg-config.
package opus

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"gopkg.in/hraban/opus.v2"

	"github.com/ik5/audclip/encode"
)

const (
	// Ogg Opus granule positions always count 48 kHz samples.
	granuleRate = 48000

	frameMillis = 20

	// maxPacketSize is the largest Opus packet libopus will produce.
	maxPacketSize = 4000
)

var nativeRates = []int{8000, 12000, 16000, 24000, 48000}

// Backend encodes Opus at one of the codec's native rates in 20 ms frames.
// The final frame is padded with silence.
type Backend struct{}

// NativeRate keeps rates libopus accepts and maps the rest to 48 kHz.
func (Backend) NativeRate(sampleRate int) int {
	if slices.Contains(nativeRates, sampleRate) {
		return sampleRate
	}
	return granuleRate
}

func (b Backend) Encode(ctx context.Context, pcm *encode.PCMReader, cfg encode.Config, sink encode.Sink) error {
	if cfg.Format != encode.Opus {
		return fmt.Errorf("%w: %v", encode.ErrUnsupportedFormat, cfg.Format)
	}
	if cfg.Channels < 1 || cfg.Channels > 2 {
		return fmt.Errorf("%w: opus takes 1 or 2 channels, got %d", encode.ErrUnsupportedFormat, cfg.Channels)
	}
	if b.NativeRate(cfg.SampleRate) != cfg.SampleRate {
		return fmt.Errorf("%w: opus cannot encode at %d Hz", encode.ErrUnsupportedFormat, cfg.SampleRate)
	}

	enc, err := opus.NewEncoder(cfg.SampleRate, cfg.Channels, opus.AppAudio)
	if err != nil {
		return fmt.Errorf("creating opus encoder: %w", err)
	}
	if cfg.Bitrate > 0 {
		if err := enc.SetBitrate(cfg.Bitrate); err != nil {
			return fmt.Errorf("setting bitrate %d: %w", cfg.Bitrate, err)
		}
	}

	ogg, err := oggwriter.NewWith(sink, uint32(cfg.SampleRate), uint16(cfg.Channels))
	if err != nil {
		return fmt.Errorf("writing ogg headers: %w", err)
	}

	frameSize := cfg.SampleRate * frameMillis / 1000
	step := uint32(granuleRate * frameMillis / 1000)

	frame := make([]int16, frameSize*cfg.Channels)
	packet := make([]byte, maxPacketSize)

	var seq uint16
	var timestamp uint32

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := pcm.ReadFrames(frame)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		clear(frame[n*cfg.Channels:])

		size, err := enc.Encode(frame, packet)
		if err != nil {
			return fmt.Errorf("opus encode: %w", err)
		}

		err = ogg.WriteRTP(&rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				SequenceNumber: seq,
				Timestamp:      timestamp,
			},
			Payload: packet[:size],
		})
		if err != nil {
			return fmt.Errorf("writing ogg page: %w", err)
		}

		seq++
		timestamp += step
	}

	return ogg.Close()
}
