// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"bytes"
	"fmt"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
)

// Compression is paid once at build time, so both compressors run at
// their maximal settings.
const (
	// gzipLevel is gzip's best-compression level (9).
	gzipLevel = gzip.BestCompression

	// brotliQuality is brotli's maximal quality (11).
	brotliQuality = brotli.BestCompression
)

// compressGzip returns the gzip-compressed form of data.
func compressGzip(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buffer, gzipLevel)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	return buffer.Bytes(), nil
}

// compressBrotli returns the brotli-compressed form of data.
func compressBrotli(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := brotli.NewWriterLevel(&buffer, brotliQuality)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("brotli compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("brotli compress: %w", err)
	}
	return buffer.Bytes(), nil
}
