// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/sitepack-foundation/sitepack/lib/pack"
	"github.com/sitepack-foundation/sitepack/lib/packpath"
)

// MinCompressSize is the default minimum identity size, in bytes, for
// a file to be considered for compression. Bodies below this fit in a
// single packet anyway; the variant would only grow the pack.
const MinCompressSize = 512

// Source is one build input: a pack path and the raw file contents.
// The caller has already chosen which files to include and rooted
// their paths.
type Source struct {
	Path    packpath.Path
	Content []byte
}

// Options control the build pipeline. Use [DefaultOptions] as the
// starting point.
type Options struct {
	// MinCompressSize is the minimum identity size for compression
	// to be attempted.
	MinCompressSize int

	// Gzip and Brotli enable the respective variants. A variant is
	// still dropped when it does not come out strictly smaller than
	// the identity body.
	Gzip   bool
	Brotli bool

	// ContentTypes overrides the inferred content type for specific
	// pack paths.
	ContentTypes map[string]string
}

// DefaultOptions returns the standard build options: both compressed
// variants enabled, [MinCompressSize] threshold.
func DefaultOptions() Options {
	return Options{
		MinCompressSize: MinCompressSize,
		Gzip:            true,
		Brotli:          true,
	}
}

// Build runs every source through the per-file pipeline and collects
// the results into a pack. Duplicate paths and compressor failures
// are fatal. The result is deterministic given the input contents;
// input order only affects which duplicate is reported first.
func Build(sources []Source, options Options) (*pack.Pack, error) {
	result := pack.New()
	for _, source := range sources {
		if source.Path.IsZero() {
			return nil, fmt.Errorf("source has unvalidated pack path")
		}

		contentType, overridden := options.ContentTypes[source.Path.String()]
		if !overridden {
			contentType = ContentTypeForPath(source.Path.String())
		}

		file, err := BuildFile(source.Content, contentType, options)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", source.Path, err)
		}
		if err := result.Insert(source.Path, file); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// BuildFile computes a single file's metadata and compressed
// variants from its raw contents.
func BuildFile(content []byte, contentType string, options Options) (*pack.File, error) {
	file := &pack.File{
		ContentType:     contentType,
		ETag:            ETag(content),
		ContentIdentity: content,
	}

	if len(content) < options.MinCompressSize {
		return file, nil
	}

	if options.Gzip {
		compressed, err := compressGzip(content)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(content) {
			file.ContentGzip = compressed
		}
	}

	if options.Brotli {
		compressed, err := compressBrotli(content)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(content) {
			file.ContentBrotli = compressed
		}
	}

	return file, nil
}

// ETag computes the strong entity tag for the given identity bytes:
// the lowercase hex SHA3-256 digest wrapped in double quotes (the
// quotes are part of the header value, as HTTP requires).
func ETag(content []byte) string {
	digest := sha3.Sum256(content)
	return `"` + hex.EncodeToString(digest[:]) + `"`
}
