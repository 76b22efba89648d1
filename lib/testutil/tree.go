// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates a temporary directory containing the given files
// and returns its path. Map keys are slash-separated relative paths;
// intermediate directories are created as needed. The directory is
// removed when the test completes.
func WriteTree(t *testing.T, files map[string][]byte) string {
	t.Helper()

	root := t.TempDir()
	for relative, content := range files {
		target := filepath.Join(root, filepath.FromSlash(relative))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", relative, err)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			t.Fatalf("writing %s: %v", relative, err)
		}
	}
	return root
}
