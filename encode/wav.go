// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audclip/formats/wav"
)

// WAVBackend produces 16-bit PCM WAV through the adapter, byte for byte the
// same as wav.Encode.
type WAVBackend struct{}

func (WAVBackend) Encode(ctx context.Context, pcm *PCMReader, cfg Config, sink Sink) error {
	if cfg.Format != WAV {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, cfg.Format)
	}

	if err := wav.WriteHeader(sink, pcm.SampleRate(), pcm.Channels(), pcm.Frames()); err != nil {
		return err
	}

	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := pcm.Read(buf)
		if n > 0 {
			if _, werr := sink.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
