// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo 16-bit PCM, which the
// source converts to float32 samples in [-1, 1]. Mono files come out with
// the same signal on both channels; use edit.ToMono to fold them back.
package mp3
