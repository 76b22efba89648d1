// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"sort"

	"github.com/sitepack-foundation/sitepack/lib/packpath"
)

// ContentEncoding identifies one of the body variants a file can
// carry. Identity is always present; the compressed variants are
// optional per file.
type ContentEncoding uint8

const (
	// EncodingIdentity is the uncompressed body.
	EncodingIdentity ContentEncoding = 0

	// EncodingGzip is the gzip-compressed body.
	EncodingGzip ContentEncoding = 1

	// EncodingBrotli is the brotli-compressed body.
	EncodingBrotli ContentEncoding = 2
)

// Token returns the HTTP content-coding token for the encoding, as
// used in Accept-Encoding and Content-Encoding headers.
func (e ContentEncoding) Token() string {
	switch e {
	case EncodingIdentity:
		return "identity"
	case EncodingGzip:
		return "gzip"
	case EncodingBrotli:
		return "br"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// String returns the human-readable name of the encoding.
func (e ContentEncoding) String() string {
	return e.Token()
}

// File is one packed asset with all HTTP-relevant metadata computed
// at build time.
type File struct {
	// ContentType is the MIME type sent in the Content-Type header,
	// e.g. "text/html; charset=utf-8".
	ContentType string

	// ETag is the strong entity tag: the quoted lowercase hex
	// SHA3-256 digest of ContentIdentity, including the double
	// quotes.
	ETag string

	// ContentIdentity is the original file contents.
	ContentIdentity []byte

	// ContentGzip is the gzip variant, or nil when not retained.
	// When present it is strictly smaller than ContentIdentity and
	// decompresses to it.
	ContentGzip []byte

	// ContentBrotli is the brotli variant, or nil when not retained.
	ContentBrotli []byte
}

// Content returns the body for the given encoding and whether that
// encoding is present. Identity is always present.
func (f *File) Content(encoding ContentEncoding) ([]byte, bool) {
	switch encoding {
	case EncodingIdentity:
		return f.ContentIdentity, true
	case EncodingGzip:
		return f.ContentGzip, f.ContentGzip != nil
	case EncodingBrotli:
		return f.ContentBrotli, f.ContentBrotli != nil
	default:
		return nil, false
	}
}

// Pack is the builder-side mapping from pack path to file. Keys are
// unique; insertion order is not observable (serialization sorts by
// path).
type Pack struct {
	files map[string]*File
}

// New creates an empty pack.
func New() *Pack {
	return &Pack{files: make(map[string]*File)}
}

// Insert adds a file under the given path. Inserting a path that is
// already present is an error.
func (p *Pack) Insert(path packpath.Path, file *File) error {
	if path.IsZero() {
		return fmt.Errorf("inserting zero pack path")
	}
	key := path.String()
	if _, exists := p.files[key]; exists {
		return fmt.Errorf("duplicate pack path %q", key)
	}
	p.files[key] = file
	return nil
}

// Lookup returns the file stored under path, if any.
func (p *Pack) Lookup(path string) (*File, bool) {
	file, ok := p.files[path]
	return file, ok
}

// Len returns the number of files in the pack.
func (p *Pack) Len() int {
	return len(p.files)
}

// Paths returns all pack paths in lexicographic byte order. This is
// the canonical ordering used by serialization.
func (p *Pack) Paths() []string {
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
