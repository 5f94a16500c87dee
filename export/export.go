// SPDX-License-Identifier: EPL-2.0

// Package export writes an edited buffer to disk in the requested format.
//
// Files appear atomically: audio is written to a hidden temporary file in
// the target directory and renamed into place only after the encoder
// reported success, so a failed export leaves nothing behind.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/encode"
)

// DefaultName is used when Options.Name is empty.
const DefaultName = "audclip"

// Options selects what Export writes and where.
type Options struct {
	Format  encode.Format
	Quality encode.Quality
	// Name is the file name; the format's extension is appended.
	Name string
	// Dir is created when missing. Empty means the working directory.
	Dir string
	// Title tags MP3 files. It defaults to Name.
	Title string
}

// Exporter owns the encode backends, one per format.
type Exporter struct {
	backends map[encode.Format]encode.Backend
	alloc    audio.Allocator
	log      logrus.FieldLogger
	timeout  time.Duration
}

type Option func(*Exporter)

// WithBackend registers backend for format, replacing any earlier one.
func WithBackend(format encode.Format, backend encode.Backend) Option {
	return func(e *Exporter) { e.backends[format] = backend }
}

func WithAllocator(alloc audio.Allocator) Option {
	return func(e *Exporter) { e.alloc = alloc }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Exporter) { e.log = log }
}

// WithTimeout bounds each encode.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) { e.timeout = d }
}

// New returns an Exporter that handles WAV out of the box. Lossy formats
// need a backend registered with WithBackend.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		backends: map[encode.Format]encode.Backend{encode.WAV: encode.WAVBackend{}},
		alloc:    audio.HeapAllocator{},
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Supports reports whether a backend is registered for format.
func (e *Exporter) Supports(format encode.Format) bool {
	_, ok := e.backends[format]
	return ok
}

// FileName derives the output file name from name and format. Directory
// parts are dropped and an extension matching format is not doubled.
func FileName(name string, format encode.Format) string {
	name = strings.TrimSpace(filepath.Base(filepath.Clean("/" + name)))
	if name == "" || name == "/" || name == "." {
		name = DefaultName
	}

	ext := format.Extension()
	if strings.EqualFold(filepath.Ext(name), ext) {
		name = name[:len(name)-len(ext)]
	}

	return name + ext
}

// Export encodes b and writes it to Dir/FileName(Name, Format). It returns
// the path written.
func (e *Exporter) Export(ctx context.Context, b *audio.Buffer, opts Options) (string, error) {
	backend, ok := e.backends[opts.Format]
	if !ok {
		return "", fmt.Errorf("%w: no backend for %v", encode.ErrUnsupportedFormat, opts.Format)
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := FileName(opts.Name, opts.Format)
	path := filepath.Join(dir, name)

	log := e.log.WithFields(logrus.Fields{
		"path":    path,
		"format":  opts.Format.String(),
		"quality": opts.Quality.String(),
	})

	tmp := filepath.Join(dir, "."+uuid.NewString()+".part")
	written, err := e.writeTemp(ctx, tmp, b, backend, opts, name)
	if err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.WithError(rmErr).Warn("could not remove temporary file")
		}
		log.WithError(err).Error("export failed")
		return "", err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("moving export into place: %w", err)
	}

	log.WithField("bytes", written).Info("exported")

	return path, nil
}

func (e *Exporter) writeTemp(ctx context.Context, tmp string, b *audio.Buffer,
	backend encode.Backend, opts Options, name string,
) (int64, error) {
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating temporary file: %w", err)
	}
	defer f.Close()

	var written int64
	if opts.Format == encode.MP3 {
		title := opts.Title
		if title == "" {
			title = strings.TrimSuffix(name, opts.Format.Extension())
		}
		n, err := writeTitle(f, title)
		if err != nil {
			return 0, err
		}
		written += n
	}

	adapter := encode.NewAdapter(backend,
		encode.WithAllocator(e.alloc),
		encode.WithLogger(e.log),
		encode.WithTimeout(e.timeout),
	)
	stream := adapter.Start(ctx, b, opts.Format, opts.Quality)

	var writeErr error
	for chunk := range stream.Chunks {
		if writeErr != nil {
			continue
		}
		n, err := f.Write(chunk)
		written += int64(n)
		if err != nil {
			writeErr = fmt.Errorf("writing %s: %w", tmp, err)
			stream.Cancel()
		}
	}

	if err := stream.Wait(); writeErr == nil && err != nil {
		return written, err
	}
	if writeErr != nil {
		return written, writeErr
	}

	if err := f.Sync(); err != nil {
		return written, fmt.Errorf("syncing %s: %w", tmp, err)
	}

	return written, f.Close()
}

func writeTitle(f *os.File, title string) (int64, error) {
	tag := id3v2.NewEmptyTag()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(title)

	n, err := tag.WriteTo(f)
	if err != nil {
		return n, fmt.Errorf("writing ID3 tag: %w", err)
	}

	return n, nil
}
