// SPDX-License-Identifier: EPL-2.0

package edit

import (
	"fmt"
	"math"

	"github.com/ik5/audclip/audio"
)

// Trim copies the span [startSec, endSec) into a new buffer.
//
// The bounds are converted with floor(sec * sampleRate), so the result holds
// floor(endSec*rate) - floor(startSec*rate) frames. It requires
// 0 <= startSec < endSec <= b.Duration() and a non-empty result.
func Trim(alloc audio.Allocator, b *audio.Buffer, startSec, endSec float64) (*audio.Buffer, error) {
	if math.IsNaN(startSec) || math.IsNaN(endSec) ||
		startSec < 0 || startSec >= endSec || endSec > b.Duration() {
		return nil, fmt.Errorf("%w: trim %vs..%vs of %vs", audio.ErrRange, startSec, endSec, b.Duration())
	}

	rate := float64(b.SampleRate())
	startSample := int(math.Floor(startSec * rate))
	endSample := min(int(math.Floor(endSec*rate)), b.Length())

	length := endSample - startSample
	if length <= 0 {
		return nil, fmt.Errorf("%w: trim %vs..%vs selects no samples", audio.ErrRange, startSec, endSec)
	}

	out, err := audio.AllocLike(alloc, b, length)
	if err != nil {
		return nil, err
	}

	for ch := range b.NumberOfChannels() {
		copy(out.Channel(ch), b.Channel(ch)[startSample:endSample])
	}

	return out, nil
}
