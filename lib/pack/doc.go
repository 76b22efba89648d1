// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// Package pack defines the pack data model and its on-disk format.
//
// A [Pack] maps validated pack paths to [File] entries carrying the
// file's identity bytes, optional gzip and brotli variants, and the
// HTTP metadata (content type, strong ETag) computed once at build
// time. [Pack.Serialize] lays the whole structure out in a single
// byte buffer; [Load] casts such a buffer in place into an [Archived]
// view that answers lookups with no parsing pass and no per-lookup
// allocation.
//
// The format is little-endian with 32-bit offsets; a serialized pack
// is limited to 4 GiB. The buffer handed to [Load] must start at a
// 16-byte aligned address — use [Aligned] when the origin of the
// buffer does not guarantee this. Packs are not stable across format
// versions: the loader rejects any buffer whose embedded version does
// not match [FormatVersion].
package pack
