// SPDX-License-Identifier: EPL-2.0

package encode

import "errors"

var (
	// ErrUnsupportedFormat reports a format the backend cannot produce.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrMisaligned reports a ReadFrames call after Read stopped mid-frame.
	ErrMisaligned = errors.New("pcm reader is not at a frame boundary")
)
