// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/internal/audiotest"
)

func TestEncode_Header(t *testing.T) {
	t.Parallel()

	b := audiotest.SilentBuffer(44100, 2, 0.5)

	data, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	dataSize := uint32(22050 * 2 * 2)
	if len(data) != HeaderSize+int(dataSize) {
		t.Fatalf("len = %d, want %d", len(data), HeaderSize+int(dataSize))
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"RIFF tag", string(data[0:4]), "RIFF"},
		{"RIFF size", le.Uint32(data[4:8]), uint32(len(data) - 8)},
		{"WAVE tag", string(data[8:12]), "WAVE"},
		{"fmt tag", string(data[12:16]), "fmt "},
		{"fmt size", le.Uint32(data[16:20]), uint32(16)},
		{"audio format", le.Uint16(data[20:22]), uint16(1)},
		{"channels", le.Uint16(data[22:24]), uint16(2)},
		{"sample rate", le.Uint32(data[24:28]), uint32(44100)},
		{"byte rate", le.Uint32(data[28:32]), uint32(44100 * 2 * 2)},
		{"block align", le.Uint16(data[32:34]), uint16(4)},
		{"bits per sample", le.Uint16(data[34:36]), uint16(16)},
		{"data tag", string(data[36:40]), "data"},
		{"data size", le.Uint32(data[40:44]), dataSize},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestEncode_Quantization(t *testing.T) {
	t.Parallel()

	left := []float32{1, -1, 0.5, -0.5, 2, -2, 0}
	right := []float32{0, 0.25, -0.25, 1, -1, 0.00001, -0.00001}
	b, err := audio.NewBufferFromChannels(8000, left, right)
	if err != nil {
		t.Fatalf("NewBufferFromChannels() error = %v", err)
	}

	data, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := []int16{
		32767, 0,
		-32768, 8191,
		16383, -8192,
		-16384, 32767,
		32767, -32768,
		-32768, 0,
		0, 0,
	}

	samples := data[HeaderSize:]
	if len(samples) != len(want)*2 {
		t.Fatalf("data length = %d, want %d", len(samples), len(want)*2)
	}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(samples[2*i:])); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestEncode_TruncatesExactProduct(t *testing.T) {
	t.Parallel()

	// 0.03540147 * 32767 is 1159.99999892; a float32 product rounds it to 1160.
	b, err := audio.NewBufferFromChannels(8000, []float32{0.03540147, float32(math.NaN())})
	if err != nil {
		t.Fatalf("NewBufferFromChannels() error = %v", err)
	}

	data, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if got := int16(binary.LittleEndian.Uint16(data[HeaderSize:])); got != 1159 {
		t.Errorf("sample 0 = %d, want 1159", got)
	}
	if got := int16(binary.LittleEndian.Uint16(data[HeaderSize+2:])); got != 0 {
		t.Errorf("NaN sample = %d, want 0", got)
	}
}

func TestEncodedSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  *audio.Buffer
		want int64
	}{
		{"empty mono", audiotest.SilentBuffer(8000, 1, 0), 44},
		{"one second mono 44.1k", audiotest.SilentBuffer(44100, 1, 1), 44 + 88200},
		{"six channels", audiotest.SilentBuffer(48000, 6, 0.5), 44 + 24000*6*2},
	}

	for _, tt := range tests {
		data, err := Encode(tt.buf)
		if err != nil {
			t.Fatalf("%s: Encode() error = %v", tt.name, err)
		}
		if EncodedSize(tt.buf) != tt.want || int64(len(data)) != tt.want {
			t.Errorf("%s: EncodedSize = %d, len = %d, want %d", tt.name, EncodedSize(tt.buf), len(data), tt.want)
		}
	}
}

func TestEncodeTo_SpansChunks(t *testing.T) {
	t.Parallel()

	b := audiotest.SineBuffer(16000, 2, 1.3, 330)

	var streamed bytes.Buffer
	if err := EncodeTo(&streamed, b); err != nil {
		t.Fatalf("EncodeTo() error = %v", err)
	}

	whole, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if !bytes.Equal(streamed.Bytes(), whole) {
		t.Error("EncodeTo() and Encode() disagree")
	}
}

func TestWriteHeader_Invalid(t *testing.T) {
	t.Parallel()

	var sink bytes.Buffer

	tests := []struct {
		name                         string
		sampleRate, channels, frames int
		want                         error
	}{
		{"zero rate", 0, 1, 10, audio.ErrInvalidFormat},
		{"zero channels", 8000, 0, 10, audio.ErrInvalidFormat},
		{"negative frames", 8000, 1, -1, audio.ErrInvalidFormat},
		{"over 4 GiB", 48000, 2, 1 << 30, ErrTooLarge},
	}

	for _, tt := range tests {
		if err := WriteHeader(&sink, tt.sampleRate, tt.channels, tt.frames); !errors.Is(err, tt.want) {
			t.Errorf("%s: WriteHeader() error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if sink.Len() != 0 {
		t.Errorf("rejected headers wrote %d bytes", sink.Len())
	}
}

type failingWriter struct{ after int }

var errWrite = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errWrite
	}
	w.after--
	return len(p), nil
}

func TestEncodeTo_WriteError(t *testing.T) {
	t.Parallel()

	b := audiotest.SineBuffer(8000, 1, 0.1, 440)

	for after := range 2 {
		if err := EncodeTo(&failingWriter{after: after}, b); !errors.Is(err, errWrite) {
			t.Errorf("EncodeTo() failing after %d writes: error = %v, want %v", after, err, errWrite)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	buf := audiotest.SineBuffer(44100, 2, 10, 440)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Encode(buf)
	}
}
