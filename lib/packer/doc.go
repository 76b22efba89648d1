// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// Package packer turns raw file contents into a [pack.Pack]. For each
// input it validates the pack path, infers the content type from the
// file extension, computes the SHA3-256 ETag, and produces gzip and
// brotli variants when they pay for themselves. [CollectDirectory]
// gathers inputs from a filesystem tree; [ReadConfigFile] reads optional
// per-pack build settings from a JSONC file.
//
// All the expensive work happens here, once, at build time — the
// loader and responder never compress or hash anything.
package packer
