// SPDX-License-Identifier: EPL-2.0

package edit

import "github.com/ik5/audclip/audio"

// ToMono averages all channels of b into a new single-channel buffer.
func ToMono(alloc audio.Allocator, b *audio.Buffer) (*audio.Buffer, error) {
	if b.NumberOfChannels() == 1 {
		out, err := audio.AllocLike(alloc, b, b.Length())
		if err != nil {
			return nil, err
		}
		copy(out.Channel(0), b.Channel(0))
		return out, nil
	}

	return audio.ReadAll(alloc, audio.NewMonoMixer(audio.NewBufferSource(b)))
}
