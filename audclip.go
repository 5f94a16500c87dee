// SPDX-License-Identifier: EPL-2.0

package audclip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/formats/aiff"
	"github.com/ik5/audclip/formats/flac"
	"github.com/ik5/audclip/formats/mp3"
	"github.com/ik5/audclip/formats/vorbis"
	"github.com/ik5/audclip/formats/wav"
)

var registry = NewRegistry()

// NewRegistry returns a registry holding a decoder for every supported
// extension.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()

	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})

	return r
}

// Formats lists the extensions Decode accepts.
func Formats() []string { return registry.Formats() }

// Decode reads r to the end as format ("mp3", ".wav", ...) and returns the
// samples in a buffer from alloc. Decoder failures wrap audio.ErrDecode.
func Decode(alloc audio.Allocator, format string, r io.Reader) (*audio.Buffer, error) {
	return DecodeWith(registry, alloc, format, r)
}

// DecodeWith is Decode with a caller-supplied registry.
func DecodeWith(reg *audio.Registry, alloc audio.Allocator, format string, r io.Reader) (*audio.Buffer, error) {
	dec, ok := reg.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %q", audio.ErrDecode, format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDecode, err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(alloc, src)
	if errors.Is(err, audio.ErrAllocLimit) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDecode, err)
	}

	return buf, nil
}

// DecodeFile decodes path, choosing the decoder by its extension.
func DecodeFile(alloc audio.Allocator, path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := Decode(alloc, filepath.Ext(path), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return buf, nil
}
