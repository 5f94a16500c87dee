// SPDX-License-Identifier: EPL-2.0

// Package audiotest builds synthetic sources and buffers for tests.
package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audclip/audio"
)

// Waveform yields the sample value at a frame index for a channel.
type Waveform func(sample int, channel int) float32

// Silence is a Waveform of zeros.
func Silence(int, int) float32 { return 0 }

// Sine returns a full-scale sine Waveform at frequency Hz.
func Sine(sampleRate int, frequency float64) Waveform {
	return func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
}

// Constant returns a Waveform stuck at value.
func Constant(value float32) Waveform {
	return func(int, int) float32 { return value }
}

// MockSource is an audio.Source generating frames from a Waveform.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	waveform     Waveform
}

func NewMockSource(sampleRate, channels, totalSamples int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, Silence)
}

func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, Sine(sampleRate, frequency))
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset allows re-reading from the first frame.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for frame := range frames {
		idx := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(idx, ch)
		}
	}

	m.generated += frames
	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// Buffer builds a buffer of length frames filled from waveform.
func Buffer(sampleRate, channels, length int, waveform Waveform) *audio.Buffer {
	b, err := audio.NewBuffer(channels, length, sampleRate)
	if err != nil {
		panic(err)
	}

	for ch := range channels {
		data := b.Channel(ch)
		for i := range data {
			data[i] = waveform(i, ch)
		}
	}

	return b
}

// SineBuffer is a full-scale sine buffer of the given duration in seconds.
func SineBuffer(sampleRate, channels int, seconds, frequency float64) *audio.Buffer {
	return Buffer(sampleRate, channels, int(seconds*float64(sampleRate)), Sine(sampleRate, frequency))
}

// SilentBuffer is an all-zero buffer of the given duration in seconds.
func SilentBuffer(sampleRate, channels int, seconds float64) *audio.Buffer {
	return Buffer(sampleRate, channels, int(seconds*float64(sampleRate)), Silence)
}

// Ramp returns a mono buffer whose samples are values, in order.
func Ramp(sampleRate int, values ...float32) *audio.Buffer {
	b, err := audio.NewBufferFromChannels(sampleRate, append([]float32(nil), values...))
	if err != nil {
		panic(err)
	}

	return b
}
