// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedEncoding reports a WAV whose samples are not integer PCM.
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding, only integer PCM is supported")

	// ErrTooLarge reports PCM data that does not fit the 32-bit RIFF sizes.
	ErrTooLarge = errors.New("audio too large for a WAV file")
)
