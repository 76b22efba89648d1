// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for sitepack
// packages.
//
// [WriteTree] materializes a map of relative paths to contents as a
// temporary directory tree, for exercising the directory walker and
// the CLI end to end.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls; they are used by the
// server lifecycle tests.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
