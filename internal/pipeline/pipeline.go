// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs the command line's edit chain: load and merge the
// inputs, apply the requested transforms in a fixed order, report peaks.
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audclip"
	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/edit"
	"github.com/ik5/audclip/internal/timecode"
	"github.com/ik5/audclip/peaks"
	"github.com/ik5/audclip/silence"
)

// Edits lists the transforms to apply. Zero values leave the audio alone.
type Edits struct {
	// TrimStart and TrimEnd select a span in seconds. TrimEnd <= 0 means
	// the end of the audio.
	TrimStart float64
	TrimEnd   float64

	RemoveSilence bool
	Silence       silence.Options

	// Speed 0 or 1 keeps the original tempo.
	Speed   float64
	Reverse bool
	Mono    bool

	// Normalize scales the peak to this level when > 0.
	Normalize float64

	FadeIn  float64
	FadeOut float64
}

func (e Edits) trims() bool { return e.TrimStart > 0 || e.TrimEnd > 0 }

// Load decodes every path and joins them in order at the first input's
// sample rate.
func Load(alloc audio.Allocator, log logrus.FieldLogger, policy edit.ChannelPolicy, paths ...string) (*audio.Buffer, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no input files", audio.ErrRange)
	}

	buffers := make([]*audio.Buffer, 0, len(paths))
	for _, p := range paths {
		b, err := audclip.DecodeFile(alloc, p)
		if err != nil {
			return nil, err
		}

		log.WithFields(logrus.Fields{
			"file":     p,
			"channels": b.NumberOfChannels(),
			"rate":     b.SampleRate(),
			"duration": timecode.Format(b.Duration()),
		}).Debug("decoded")

		buffers = append(buffers, b)
	}

	if len(buffers) == 1 {
		return buffers[0], nil
	}

	return edit.MergeResampled(alloc, buffers, buffers[0].SampleRate(), policy)
}

// Apply runs e over b: trim, silence removal, speed, reverse, mono,
// normalize, then the fades. b may be modified in place.
func Apply(alloc audio.Allocator, log logrus.FieldLogger, b *audio.Buffer, e Edits) (*audio.Buffer, error) {
	var err error

	step := func(name string, fn func() error) error {
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.WithFields(logrus.Fields{
			"step":     name,
			"duration": timecode.Format(b.Duration()),
		}).Debug("applied")
		return nil
	}

	if e.trims() {
		end := e.TrimEnd
		if end <= 0 {
			end = b.Duration()
		}
		if err = step("trim", func() (err error) {
			b, err = edit.Trim(alloc, b, e.TrimStart, end)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if e.RemoveSilence {
		if err = step("remove silence", func() (err error) {
			b, err = silence.Remove(alloc, b, e.Silence)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if e.Speed != 0 && e.Speed != 1 {
		if err = step("speed", func() (err error) {
			b, err = edit.ChangeSpeed(alloc, b, e.Speed)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if e.Reverse {
		if err = step("reverse", func() (err error) {
			b, err = edit.Reverse(alloc, b)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if e.Mono && b.NumberOfChannels() > 1 {
		if err = step("mono", func() (err error) {
			b, err = edit.ToMono(alloc, b)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if e.Normalize > 0 {
		if err = step("normalize", func() error { return edit.Normalize(b, e.Normalize) }); err != nil {
			return nil, err
		}
	}

	if e.FadeIn > 0 {
		if err = step("fade in", func() error { return edit.FadeIn(b, e.FadeIn) }); err != nil {
			return nil, err
		}
	}

	if e.FadeOut > 0 {
		if err = step("fade out", func() error { return edit.FadeOut(b, e.FadeOut) }); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Report is the JSON document WriteReport produces.
type Report struct {
	Channels   int            `json:"channels"`
	SampleRate int            `json:"sample_rate"`
	Duration   string         `json:"duration"`
	Silence    []Silence      `json:"silence,omitempty"`
	Peaks      [][]peaks.Peak `json:"peaks,omitempty"`
}

// Silence is one merged silent region in the report.
type Silence struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewReport describes b. Silent regions are listed when opts is non-nil
// and peaks when count > 0.
func NewReport(b *audio.Buffer, opts *silence.Options, count int) (*Report, error) {
	r := &Report{
		Channels:   b.NumberOfChannels(),
		SampleRate: b.SampleRate(),
		Duration:   timecode.Format(b.Duration()),
	}

	if opts != nil {
		regions, err := silence.Detect(b, *opts)
		if err != nil {
			return nil, err
		}
		for _, reg := range silence.MergeRegions(regions) {
			r.Silence = append(r.Silence, Silence{
				Start: timecode.Format(reg.Start),
				End:   timecode.Format(reg.End),
			})
		}
	}

	if count > 0 {
		p, err := peaks.Calculate(b, count)
		if err != nil {
			return nil, err
		}
		r.Peaks = p
	}

	return r, nil
}

func (r *Report) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return 0, err
	}

	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}
