// SPDX-License-Identifier: EPL-2.0

// Package audclip trims, shapes and re-encodes audio clips held in memory.
//
// The root package decodes files into audio.Buffer values through a registry
// of every supported format. The editing and encoding work lives in the
// subpackages.
//
// # Supported Formats
//
// Decoding, selected by file extension:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF via formats/aiff
//   - FLAC via formats/flac
//
// Encoding: 16-bit PCM WAV in process (formats/wav), Ogg Opus through
// libopus (encode/opus) and MP3 or WebM through ffmpeg (encode/ffmpeg).
//
// # Quick Start
//
//	alloc := audio.HeapAllocator{}
//
//	buf, err := audclip.DecodeFile(alloc, "take.mp3")
//	if err != nil {
//	    return err
//	}
//
//	clip, _ := edit.Trim(alloc, buf, 0.5, 12.25)
//	_ = edit.FadeIn(clip, 0.1)
//	_ = edit.FadeOut(clip, 0.5)
//	_ = edit.Normalize(clip, edit.DefaultNormalizeTarget)
//
//	data, _ := wav.Encode(clip)
//
// # Editing
//
// Package edit holds the buffer transforms. FadeIn, FadeOut and Normalize
// change the buffer in place; Trim, ChangeSpeed, Reverse, Merge and ToMono
// return a new buffer from the Allocator passed in.
//
// # Analysis
//
// Package silence finds quiet regions and cuts them out, and package peaks
// reduces a buffer to min/max pairs for drawing a waveform.
//
// # Export
//
// Package export writes a buffer to disk in any registered format. Lossy
// formats go through encode.Adapter, which runs a codec backend in its own
// goroutine and streams the encoded bytes back over a channel:
//
//	exp := export.New(
//	    export.WithBackend(encode.Opus, opus.Backend{}),
//	    export.WithBackend(encode.MP3, ffmpeg.Backend{}),
//	)
//	path, err := exp.Export(ctx, clip, export.Options{Format: encode.MP3, Name: "take"})
//
// See the individual subpackages for more detailed documentation.
package audclip
