// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg is an encode.Backend that pipes PCM through an ffmpeg
// process: MP3 with libmp3lame and WebM with libopus.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/audclip/encode"
)

// DefaultPath is looked up in $PATH.
const DefaultPath = "ffmpeg"

// maxStderr bounds how much of ffmpeg's diagnostics is kept for errors.
const maxStderr = 4096

// Backend runs the ffmpeg binary at Path, or DefaultPath when empty.
type Backend struct {
	Path string
}

func (b Backend) path() string {
	if b.Path == "" {
		return DefaultPath
	}
	return b.Path
}

// Args returns the ffmpeg arguments for cfg: raw s16le on stdin, the encoded
// container on stdout.
func Args(cfg encode.Config) ([]string, error) {
	var codec, container string
	switch cfg.Format {
	case encode.MP3:
		codec, container = "libmp3lame", "mp3"
	case encode.WebM:
		codec, container = "libopus", "webm"
	default:
		return nil, fmt.Errorf("%w: %v", encode.ErrUnsupportedFormat, cfg.Format)
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-ac", strconv.Itoa(cfg.Channels),
		"-i", "pipe:0",
		"-c:a", codec,
	}
	if cfg.Bitrate > 0 {
		args = append(args, "-b:a", strconv.Itoa(cfg.Bitrate/1000)+"k")
	}

	return append(args, "-f", container, "pipe:1"), nil
}

// limitedBuffer keeps the first maxStderr bytes written to it.
type limitedBuffer struct{ bytes.Buffer }

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if room := maxStderr - l.Len(); room > 0 {
		l.Buffer.Write(p[:min(len(p), room)])
	}
	return len(p), nil
}

func (b Backend) Encode(ctx context.Context, pcm *encode.PCMReader, cfg encode.Config, sink encode.Sink) error {
	args, err := Args(cfg)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, b.path(), args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout: %w", err)
	}
	var stderr limitedBuffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", b.path(), err)
	}

	var g errgroup.Group

	g.Go(func() error {
		_, err := io.Copy(stdin, pcm)
		if cerr := stdin.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("feeding ffmpeg: %w", err)
		}
		return nil
	})

	// stdout is read to EOF before Wait, so no output is lost.
	g.Go(func() error {
		if _, err := io.Copy(sink, stdout); err != nil {
			return fmt.Errorf("reading ffmpeg output: %w", err)
		}
		return nil
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg: %w: %s", waitErr, strings.TrimSpace(stderr.String()))
	}

	return pumpErr
}
