// SPDX-License-Identifier: EPL-2.0

// Package edit implements the buffer transforms used to shape a clip:
// trimming, fades, normalization, speed change, reversal, concatenation and
// downmixing.
//
// Each operation either mutates its input in place or returns a newly owned
// buffer, never both:
//
//	in place:   FadeIn, FadeOut, Normalize
//	new buffer: Trim, ChangeSpeed, Reverse, Merge, MergeWith, ToMono
//
// Operations returning a new buffer take the session's audio.Allocator.
// A typical chain:
//
//	alloc := audio.HeapAllocator{}
//	clip, err := edit.Trim(alloc, src, 0.5, 1.5)
//	if err != nil {
//	    return err
//	}
//	_ = edit.FadeIn(clip, 0.1)
//	_ = edit.Normalize(clip, edit.DefaultNormalizeTarget)
//
// Invalid arguments fail with errors wrapping audio.ErrRange.
package edit
