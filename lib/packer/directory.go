// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/sitepack-foundation/sitepack/lib/packpath"
)

// WalkOptions control [CollectDirectory].
type WalkOptions struct {
	// FollowSymlinks reads through symbolic links to regular files.
	// Symlinks to directories are not traversed.
	FollowSymlinks bool

	// Exclude is a list of path.Match glob patterns tested against
	// each candidate pack path. Matching files are skipped.
	Exclude []string
}

// CollectDirectory walks root recursively and returns one [Source]
// per regular file, with pack paths formed by stripping the root
// prefix and normalizing separators to forward slashes. The walk is
// in lexical order, so the result is deterministic for a given tree.
func CollectDirectory(root string, options WalkOptions) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(root, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", filePath, err)
		}
		if entry.IsDir() {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			if !options.FollowSymlinks {
				return nil
			}
			info, err := os.Stat(filePath)
			if err != nil {
				return fmt.Errorf("resolving symlink %s: %w", filePath, err)
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !entry.Type().IsRegular() {
			return nil
		}

		relative, err := filepath.Rel(root, filePath)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", filePath, err)
		}
		packPath, err := packpath.Parse(filepath.ToSlash(relative))
		if err != nil {
			return fmt.Errorf("file %s: %w", filePath, err)
		}

		for _, pattern := range options.Exclude {
			matched, err := path.Match(pattern, packPath.String())
			if err != nil {
				return fmt.Errorf("exclude pattern %q: %w", pattern, err)
			}
			if matched {
				return nil
			}
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filePath, err)
		}

		sources = append(sources, Source{Path: packPath, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sources, nil
}
