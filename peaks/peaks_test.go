// SPDX-License-Identifier: EPL-2.0

package peaks

import (
	"errors"
	"testing"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/internal/audiotest"
)

func TestCalculate_Buckets(t *testing.T) {
	t.Parallel()

	b := audiotest.Ramp(8, 0.5, -0.25, 0.75, 0.1, -1, -0.5, 0.2, 0.3, 0.9)

	got, err := Calculate(b, 4)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	// Two samples per bucket; the trailing 0.9 falls outside every bucket.
	want := []Peak{
		{Min: -0.25, Max: 0.5},
		{Min: 0, Max: 0.75},
		{Min: -1, Max: 0},
		{Min: 0, Max: 0.3},
	}
	if len(got) != 1 || len(got[0]) != len(want) {
		t.Fatalf("Calculate() shape = %d x %d, want 1 x %d", len(got), len(got[0]), len(want))
	}
	for i, w := range want {
		if got[0][i] != w {
			t.Errorf("bucket %d = %+v, want %+v", i, got[0][i], w)
		}
	}
}

func TestCalculate_CountAndAnchoring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		buf   *audio.Buffer
		count int
	}{
		{"stereo sine default count", audiotest.SineBuffer(44100, 2, 1.0, 440), DefaultCount},
		{"positive constant", audiotest.Buffer(8000, 1, 8000, audiotest.Constant(0.4)), 100},
		{"negative constant", audiotest.Buffer(8000, 1, 8000, audiotest.Constant(-0.4)), 100},
		{"shorter than count", audiotest.SineBuffer(8000, 1, 0.01, 440), 1000},
		{"silent", audiotest.SilentBuffer(8000, 2, 0.5), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Calculate(tt.buf, tt.count)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}

			if len(got) != tt.buf.NumberOfChannels() {
				t.Fatalf("channels = %d, want %d", len(got), tt.buf.NumberOfChannels())
			}
			for ch, peaks := range got {
				if len(peaks) != tt.count {
					t.Fatalf("channel %d has %d peaks, want %d", ch, len(peaks), tt.count)
				}
				for i, p := range peaks {
					if p.Min > 0 || p.Max < 0 {
						t.Fatalf("channel %d bucket %d = %+v, want Min <= 0 <= Max", ch, i, p)
					}
				}
			}
		})
	}
}

func TestCalculate_ShortBufferIsFlat(t *testing.T) {
	t.Parallel()

	b := audiotest.Buffer(8000, 1, 10, audiotest.Constant(0.8))

	got, err := Calculate(b, 20)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for i, p := range got[0] {
		if p != (Peak{}) {
			t.Errorf("bucket %d = %+v, want zero", i, p)
		}
	}
}

func TestCalculate_InvalidCount(t *testing.T) {
	t.Parallel()

	b := audiotest.SilentBuffer(8000, 1, 0.1)

	for _, count := range []int{0, -1} {
		if _, err := Calculate(b, count); !errors.Is(err, audio.ErrRange) {
			t.Errorf("Calculate(%d) error = %v, want ErrRange", count, err)
		}
	}
}

func BenchmarkCalculate(b *testing.B) {
	buf := audiotest.SineBuffer(44100, 2, 60, 440)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = Calculate(buf, DefaultCount)
	}
}
