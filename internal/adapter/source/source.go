// Package source opens the raw data tables from the local filesystem or an
// S3-compatible bucket. Gzip-compressed objects are decompressed on the fly.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Opener returns a reader for a named table. Callers close the reader.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// gzipMagic is the two-byte header of every gzip stream (RFC 1952).
var gzipMagic = []byte{0x1f, 0x8b}

// decompress returns rc unchanged unless it starts with a gzip header, in
// which case the returned reader yields the decompressed contents. Closing it
// closes rc.
func decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		rc.Close()
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if !bytes.Equal(head, gzipMagic) {
		return readCloser{Reader: br, closers: []io.Closer{rc}}, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("gunzip %s: %w", name, err)
	}
	return readCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
