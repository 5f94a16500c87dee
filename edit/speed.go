// SPDX-License-Identifier: EPL-2.0

package edit

import (
	"fmt"
	"math"

	"github.com/ik5/audclip/audio"
)

// ChangeSpeed plays b faster (factor > 1) or slower (factor < 1).
//
// Output sample i is source sample floor(i*factor), with no interpolation,
// so duration and pitch change together, like a tape running at another
// speed. The result holds floor(length/factor) frames.
func ChangeSpeed(alloc audio.Allocator, b *audio.Buffer, factor float64) (*audio.Buffer, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return nil, fmt.Errorf("%w: speed factor %v", audio.ErrRange, factor)
	}

	length := b.Length()
	newLength := int(math.Floor(float64(length) / factor))

	out, err := audio.AllocLike(alloc, b, newLength)
	if err != nil {
		return nil, err
	}

	for ch := range b.NumberOfChannels() {
		src, dst := b.Channel(ch), out.Channel(ch)
		for i := range dst {
			if j := int(math.Floor(float64(i) * factor)); j < length {
				dst[i] = src[j]
			}
		}
	}

	return out, nil
}
