// SPDX-License-Identifier: EPL-2.0

package edit

import "github.com/ik5/audclip/audio"

// Reverse returns b played backwards.
func Reverse(alloc audio.Allocator, b *audio.Buffer) (*audio.Buffer, error) {
	out, err := audio.AllocLike(alloc, b, b.Length())
	if err != nil {
		return nil, err
	}

	last := b.Length() - 1
	for ch := range b.NumberOfChannels() {
		src, dst := b.Channel(ch), out.Channel(ch)
		for i := range dst {
			dst[i] = src[last-i]
		}
	}

	return out, nil
}
