// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// Package packpath provides the validated path type used as the lookup
// key inside a pack. A pack path is a slash-separated relative path
// with no leading or trailing slash, e.g. "css/style.css". Request
// URIs map onto pack paths by stripping the leading slash.
package packpath

import (
	"fmt"
	"strings"
)

// Path is a canonical, validated relative path inside a pack. The zero
// value is not a valid path; construct one with [Parse].
type Path struct {
	raw string
}

// Parse validates s and returns it as a Path. The rules:
//
//   - the path is nonempty and has no leading or trailing slash
//   - every slash-separated segment is nonempty
//   - no segment is "." or ".."
//   - no segment contains NUL or backslash
//
// Violating inputs return an error describing the first offending
// segment. Parsing the string form of a valid Path yields an equal
// Path.
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("pack path is empty")
	}

	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '/' {
			continue
		}
		segment := s[start:i]
		if err := validateSegment(segment); err != nil {
			return Path{}, fmt.Errorf("pack path %q: %w", s, err)
		}
		start = i + 1
	}

	return Path{raw: s}, nil
}

func validateSegment(segment string) error {
	switch segment {
	case "":
		return fmt.Errorf("empty segment")
	case ".", "..":
		return fmt.Errorf("segment %q is not allowed", segment)
	}
	if strings.IndexByte(segment, 0) >= 0 {
		return fmt.Errorf("segment contains NUL byte")
	}
	if strings.IndexByte(segment, '\\') >= 0 {
		return fmt.Errorf("segment contains backslash")
	}
	return nil
}

// String returns the textual form of the path: slash-separated
// segments with no leading or trailing slash.
func (p Path) String() string {
	return p.raw
}

// Segments returns the path's segments in order.
func (p Path) Segments() []string {
	return strings.Split(p.raw, "/")
}

// IsZero reports whether p is the zero value (not produced by Parse).
func (p Path) IsZero() bool {
	return p.raw == ""
}
