// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audclip/audio"
)

func writeAiff(t *testing.T, sampleRate, bitDepth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.aiff")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := goaiff.NewEncoder(f, sampleRate, bitDepth, channels)
	err = enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestDecoder_Stereo16(t *testing.T) {
	t.Parallel()

	path := writeAiff(t, 44100, 16, 2, []int{-32768, 32767, 16384, -16384, 0, 0})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz, %d ch", src.SampleRate(), src.Channels())
	}

	buf, err := audio.ReadAll(audio.HeapAllocator{}, src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := [][]float32{{-1, 16384.0 / 32767, 0}, {1, -0.5, 0}}
	if buf.Length() != 3 {
		t.Fatalf("Length() = %d, want 3", buf.Length())
	}
	for ch := range want {
		for i, w := range want[ch] {
			if v := buf.Channel(ch)[i]; math.Abs(float64(v-w)) > 1e-6 {
				t.Errorf("channel %d frame %d = %v, want %v", ch, i, v, w)
			}
		}
	}
}

func TestDecoder_NonSeekable(t *testing.T) {
	t.Parallel()

	path := writeAiff(t, 8000, 16, 1, []int{100, 200, 300, 400})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// A bytes.Buffer has no Seek method.
	src, err := Decoder{}.Decode(bytes.NewBuffer(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	buf, err := audio.ReadAll(audio.HeapAllocator{}, src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if buf.Length() != 4 {
		t.Errorf("Length() = %d, want 4", buf.Length())
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"empty":   {},
		"garbage": []byte("This is not AIFF data, just some bytes to read"),
	} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotAiffFile) {
			t.Errorf("Decode(%s) error = %v, want ErrNotAiffFile", name, err)
		}
	}
}
