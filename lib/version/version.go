// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build version information for the sitepack
// binaries.
package version

import "runtime/debug"

// Version is the release version, set at build time via
//
//	-ldflags "-X github.com/sitepack-foundation/sitepack/lib/version.Version=v1.2.3"
//
// Development builds fall back to module build info.
var Version = ""

// Full returns the most specific version string available: the
// injected release version, the module version from build info, or
// "(devel)".
func Full() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
