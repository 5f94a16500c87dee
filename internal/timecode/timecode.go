// SPDX-License-Identifier: EPL-2.0

// Package timecode converts between seconds and the MM:SS.mmm notation used
// on the command line.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ik5/audclip/audio"
)

// Parse accepts plain seconds ("12.5"), MM:SS[.mmm] or HH:MM:SS[.mmm].
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty time", audio.ErrRange)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: time %q", audio.ErrRange, s)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || math.IsInf(secs, 0) || math.IsNaN(secs) {
		return 0, fmt.Errorf("%w: time %q", audio.ErrRange, s)
	}
	if len(parts) > 1 && secs >= 60 {
		return 0, fmt.Errorf("%w: seconds field of %q", audio.ErrRange, s)
	}

	total := secs
	scale := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: time %q", audio.ErrRange, s)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("%w: minutes field of %q", audio.ErrRange, s)
		}
		total += float64(n) * scale
		scale *= 60
	}

	return total, nil
}

// Format renders seconds as MM:SS.mmm, or H:MM:SS.mmm from one hour on.
// Fractions below a millisecond are truncated.
func Format(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	ms := int64(math.Floor(seconds*1000 + 1e-6))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	sec := ms / 1000 % 60
	ms %= 1000

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, sec, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, sec, ms)
}
