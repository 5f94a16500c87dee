// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files with
// github.com/go-audio/aiff.
//
// Big-endian integer PCM of 8, 16, 24 and 32 bits is supported, with any
// channel count. Input that cannot seek is buffered in memory first.
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // wrong container
//	}
package aiff
