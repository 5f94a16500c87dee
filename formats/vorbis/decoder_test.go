// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audclip/audio"
)

type mockReader struct {
	sampleRate int
	channels   int
	data       []float32
}

func (m *mockReader) SampleRate() int { return m.sampleRate }
func (m *mockReader) Channels() int   { return m.channels }

func (m *mockReader) Read(p []float32) (int, error) {
	if len(m.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.data)
	m.data = m.data[n:]
	return n, nil
}

func newSource(channels int, data ...float32) *source {
	return &source{
		dec:        &mockReader{sampleRate: 48000, channels: channels, data: data},
		sampleRate: 48000,
		channels:   channels,
	}
}

func TestSource_ReadAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		data     []float32
	}{
		{"mono", 1, []float32{0.1, 0.2, 0.3}},
		{"stereo", 2, []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}},
		{"5.1", 6, make([]float32, 6*1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf, err := audio.ReadAll(audio.HeapAllocator{}, newSource(tt.channels, tt.data...))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}

			frames := len(tt.data) / tt.channels
			if buf.NumberOfChannels() != tt.channels || buf.Length() != frames {
				t.Fatalf("ReadAll() = %v, want %d ch x %d", buf, tt.channels, frames)
			}
			for i := range frames {
				for ch := range tt.channels {
					if got, want := buf.Channel(ch)[i], tt.data[i*tt.channels+ch]; got != want {
						t.Fatalf("channel %d frame %d = %v, want %v", ch, i, got, want)
					}
				}
			}
		})
	}
}

func TestSource_PartialFrameDestination(t *testing.T) {
	t.Parallel()

	src := newSource(2, 0.5, 0.5)

	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(3) error = %v, want ErrInvalidDstSize", err)
	}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(2)

	if src.SampleRate() != 48000 || src.Channels() != 2 || src.BufSize() != 8192 {
		t.Errorf("metadata = %d Hz, %d ch, buf %d", src.SampleRate(), src.Channels(), src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"empty":   {},
		"garbage": []byte("This is not Ogg Vorbis data"),
	} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%s) error = nil, want error", name)
		}
	}
}
