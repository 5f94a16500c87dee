// SPDX-License-Identifier: EPL-2.0

// Package encode turns an audio.Buffer into a compressed byte stream
// through a pluggable Backend.
//
// The Adapter runs the backend in its own goroutine. Encoded bytes arrive on
// Stream.Chunks, and Stream.Wait reports the single terminal result once
// every chunk has been delivered:
//
//	adapter := encode.NewAdapter(opus.Backend{}, encode.WithTimeout(time.Minute))
//	stream := adapter.Start(ctx, buf, encode.Opus, encode.High)
//	data, err := encode.Collect(ctx, stream)
//
// A backend that returns before reading all of the PCM it was given fails
// the stream with audio.ErrEncodeIncomplete.
package encode
