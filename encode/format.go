// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"fmt"
	"strings"

	"github.com/ik5/audclip/audio"
)

// Format is an output container and codec.
type Format int

const (
	WAV Format = iota
	MP3
	WebM
	Opus
)

var formatNames = [...]string{WAV: "wav", MP3: "mp3", WebM: "webm", Opus: "opus"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Extension is the file name suffix for f, with the leading dot.
func (f Format) Extension() string {
	switch f {
	case Opus:
		return ".ogg"
	default:
		return "." + f.String()
	}
}

// Lossy reports whether f goes through a compressing backend.
func (f Format) Lossy() bool { return f != WAV }

// ParseFormat accepts a format name or extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if s == "ogg" {
		return Opus, nil
	}

	for f, name := range formatNames {
		if s == name {
			return Format(f), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Quality is a bitrate preset.
type Quality int

const (
	High Quality = iota
	Medium
	Low
)

func (q Quality) String() string {
	switch q {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality accepts "high", "medium" or "low".
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, nil
	case "medium", "":
		return Medium, nil
	case "low":
		return Low, nil
	default:
		return 0, fmt.Errorf("%w: unknown quality %q", audio.ErrRange, s)
	}
}

// Bitrate returns the target bitrate of q for f in bits per second: 320, 192
// or 128 kbps. WAV has no target and reports 0.
func (q Quality) Bitrate(f Format) int {
	if !f.Lossy() {
		return 0
	}

	switch q {
	case High:
		return 320000
	case Low:
		return 128000
	default:
		return 192000
	}
}
