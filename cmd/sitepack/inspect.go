// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sitepack-foundation/sitepack/cmd/sitepack/cli"
	"github.com/sitepack-foundation/sitepack/lib/codec"
	"github.com/sitepack-foundation/sitepack/lib/pack"
)

// manifestEntry is one file's metadata in an inspect manifest. Body
// bytes are summarized by length, never dumped.
type manifestEntry struct {
	Path        string `json:"path" cbor:"path"`
	ContentType string `json:"content_type" cbor:"content_type"`
	ETag        string `json:"etag" cbor:"etag"`
	Size        int    `json:"size" cbor:"size"`
	GzipSize    int    `json:"gzip_size,omitempty" cbor:"gzip_size,omitempty"`
	BrotliSize  int    `json:"brotli_size,omitempty" cbor:"brotli_size,omitempty"`
}

func inspectCommand() *cli.Command {
	var format string

	return &cli.Command{
		Name:    "inspect",
		Summary: "Print a pack file's manifest",
		Description: `Load a pack file and print its manifest: every pack path with its
content type, ETag, and body sizes. The CBOR output uses deterministic
encoding, so manifests of identical packs are bytewise identical and
safe to checksum in build pipelines.`,
		Usage: "sitepack inspect <pack-file> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			flags.StringVar(&format, "format", "json", "output format: json, cbor, or diag (CBOR diagnostic notation)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <pack-file>, got %d arguments", len(args))
			}
			return runInspect(args[0], format)
		},
	}
}

func runInspect(packFile, format string) error {
	buffer, err := os.ReadFile(packFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", packFile, err)
	}
	archived, err := pack.Load(pack.Aligned(buffer))
	if err != nil {
		return fmt.Errorf("loading %s: %w", packFile, err)
	}

	entries := make([]manifestEntry, 0, archived.Len())
	for i := 0; i < archived.Len(); i++ {
		file := archived.FileAt(i)
		entry := manifestEntry{
			Path:        file.Path(),
			ContentType: file.ContentType(),
			ETag:        file.ETag(),
			Size:        len(file.ContentIdentity()),
		}
		if gzip, ok := file.ContentGzip(); ok {
			entry.GzipSize = len(gzip)
		}
		if brotli, ok := file.ContentBrotli(); ok {
			entry.BrotliSize = len(brotli)
		}
		entries = append(entries, entry)
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(entries); err != nil {
			return fmt.Errorf("encoding manifest: %w", err)
		}
	case "cbor":
		encoded, err := codec.Marshal(entries)
		if err != nil {
			return fmt.Errorf("encoding manifest: %w", err)
		}
		if _, err := os.Stdout.Write(encoded); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	case "diag":
		encoded, err := codec.Marshal(entries)
		if err != nil {
			return fmt.Errorf("encoding manifest: %w", err)
		}
		notation, err := codec.Diagnose(encoded)
		if err != nil {
			return fmt.Errorf("diagnosing manifest: %w", err)
		}
		fmt.Println(notation)
	default:
		return fmt.Errorf("unknown format %q (want json, cbor, or diag)", format)
	}
	return nil
}
