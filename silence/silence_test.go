// SPDX-License-Identifier: EPL-2.0

package silence

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/internal/audiotest"
)

// gated is 0.5 everywhere except inside the [from, to) span given per channel.
func gated(spans map[int][2]int) audiotest.Waveform {
	return func(i, ch int) float32 {
		if s, ok := spans[ch]; ok && i >= s[0] && i < s[1] {
			return 0
		}
		return 0.5
	}
}

func TestDetect_PureSilence(t *testing.T) {
	t.Parallel()

	b := audiotest.SilentBuffer(44100, 1, 1.0)

	regions, err := Detect(b, DefaultOptions())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	want := []Region{{Start: 0, End: 1, Channel: 0}}
	if !slices.Equal(regions, want) {
		t.Errorf("Detect() = %v, want %v", regions, want)
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  *audio.Buffer
		opts Options
		want []Region
	}{
		{
			name: "no silence",
			buf:  audiotest.Buffer(1000, 1, 1000, audiotest.Constant(0.5)),
			opts: DefaultOptions(),
			want: nil,
		},
		{
			name: "middle gap",
			buf:  audiotest.Buffer(1000, 1, 1000, gated(map[int][2]int{0: {300, 600}})),
			opts: DefaultOptions(),
			want: []Region{{Start: 0.3, End: 0.6, Channel: 0}},
		},
		{
			name: "gap shorter than minimum",
			buf:  audiotest.Buffer(1000, 1, 1000, gated(map[int][2]int{0: {300, 350}})),
			opts: DefaultOptions(),
			want: nil,
		},
		{
			name: "gap of exactly the minimum",
			buf:  audiotest.Buffer(1000, 1, 1000, gated(map[int][2]int{0: {300, 400}})),
			opts: DefaultOptions(),
			want: []Region{{Start: 0.3, End: 0.4, Channel: 0}},
		},
		{
			name: "trailing run",
			buf:  audiotest.Buffer(1000, 1, 1000, gated(map[int][2]int{0: {800, 1000}})),
			opts: DefaultOptions(),
			want: []Region{{Start: 0.8, End: 1, Channel: 0}},
		},
		{
			name: "per channel",
			buf:  audiotest.Buffer(1000, 2, 1000, gated(map[int][2]int{0: {0, 200}, 1: {500, 700}})),
			opts: DefaultOptions(),
			want: []Region{
				{Start: 0, End: 0.2, Channel: 0},
				{Start: 0.5, End: 0.7, Channel: 1},
			},
		},
		{
			name: "raised threshold",
			buf:  audiotest.Buffer(1000, 1, 500, audiotest.Constant(0.05)),
			opts: Options{Threshold: 0.1, MinDuration: 0.1},
			want: []Region{{Start: 0, End: 0.5, Channel: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Detect(tt.buf, tt.opts)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_InvalidOptions(t *testing.T) {
	t.Parallel()

	b := audiotest.SilentBuffer(8000, 1, 0.1)

	for _, opts := range []Options{
		{Threshold: 0, MinDuration: 0.1},
		{Threshold: 1.5, MinDuration: 0.1},
		{Threshold: math.NaN(), MinDuration: 0.1},
		{Threshold: 0.01, MinDuration: -1},
		{Threshold: 0.01, MinDuration: math.Inf(1)},
	} {
		if _, err := Detect(b, opts); !errors.Is(err, audio.ErrRange) {
			t.Errorf("Detect(%+v) error = %v, want ErrRange", opts, err)
		}
	}
}

func TestMergeRegions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []Region
		want []Region
	}{
		{
			name: "adjacent",
			in:   []Region{{0, 1, 0}, {1, 2, 0}},
			want: []Region{{0, 2, 0}},
		},
		{
			name: "disjoint",
			in:   []Region{{0, 1, 0}, {3, 4, 0}},
			want: []Region{{0, 1, 0}, {3, 4, 0}},
		},
		{
			name: "unsorted across channels",
			in:   []Region{{2.5, 3, 1}, {0, 1, 1}, {0.5, 2.5, 0}},
			want: []Region{{0, 3, 1}},
		},
		{
			name: "contained",
			in:   []Region{{0, 5, 0}, {1, 2, 1}},
			want: []Region{{0, 5, 0}},
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := slices.Clone(tt.in)
			got := MergeRegions(in)

			if !slices.Equal(got, tt.want) {
				t.Errorf("MergeRegions() = %v, want %v", got, tt.want)
			}
			if !slices.Equal(in, tt.in) {
				t.Errorf("MergeRegions() modified its input: %v", in)
			}
		})
	}
}

func TestRemove_NoSilenceReturnsInput(t *testing.T) {
	t.Parallel()

	b := audiotest.Buffer(8000, 2, 800, audiotest.Constant(0.5))

	out, err := Remove(audio.HeapAllocator{}, b, DefaultOptions())
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if out != b {
		t.Error("Remove() without silence returned a copy")
	}
}

func TestRemove_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		spans map[int][2]int
		want  int
	}{
		{"middle gap", map[int][2]int{0: {300, 600}, 1: {300, 600}}, 700},
		{"leading gap", map[int][2]int{0: {0, 250}, 1: {0, 250}}, 750},
		{"trailing gap", map[int][2]int{0: {900, 1000}, 1: {900, 1000}}, 900},
		{"gaps on different channels", map[int][2]int{0: {300, 600}, 1: {500, 800}}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := audiotest.Buffer(1000, 2, 1000, gated(tt.spans))

			regions, err := Detect(b, DefaultOptions())
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			silent := 0.0
			for _, r := range MergeRegions(regions) {
				silent += r.Duration()
			}

			out, err := Remove(audio.HeapAllocator{}, b, DefaultOptions())
			if err != nil {
				t.Fatalf("Remove() error = %v", err)
			}

			if out.Length() != tt.want {
				t.Errorf("Length() = %d, want %d", out.Length(), tt.want)
			}
			if want := int(math.Round((b.Duration() - silent) * 1000)); out.Length() != want {
				t.Errorf("Length() = %d, want round((duration - silence) * rate) = %d", out.Length(), want)
			}
		})
	}
}

func TestRemove_KeepsAudibleSamples(t *testing.T) {
	t.Parallel()

	values := make([]float32, 1000)
	for i := range values {
		values[i] = 0.1 + float32(i)/10000
	}
	for i := 400; i < 600; i++ {
		values[i] = 0
	}
	b := audiotest.Ramp(1000, values...)

	out, err := Remove(audio.HeapAllocator{}, b, DefaultOptions())
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	want := append(slices.Clone(values[:400]), values[600:]...)
	if !slices.Equal(out.Channel(0), want) {
		t.Error("Remove() did not keep the audible samples in order")
	}
}

func TestRemove_AllSilent(t *testing.T) {
	t.Parallel()

	b := audiotest.SilentBuffer(8000, 2, 0.5)

	out, err := Remove(audio.HeapAllocator{}, b, DefaultOptions())
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if out.Length() != 0 || out.NumberOfChannels() != 2 {
		t.Errorf("Remove() = %v, want an empty stereo buffer", out)
	}
}
