// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"bytes"
	"testing"

	"github.com/sitepack-foundation/sitepack/lib/testutil"
)

func TestCollectDirectory(t *testing.T) {
	root := testutil.WriteTree(t, map[string][]byte{
		"index.html":       []byte("<h1>hello</h1>"),
		"css/style.css":    []byte("body {}"),
		"js/app.js":        []byte("console.log(1)"),
		"assets/logo.webp": {0x52, 0x49, 0x46, 0x46},
	})

	sources, err := CollectDirectory(root, WalkOptions{})
	if err != nil {
		t.Fatalf("CollectDirectory() = %v", err)
	}

	byPath := make(map[string][]byte, len(sources))
	for _, source := range sources {
		byPath[source.Path.String()] = source.Content
	}

	want := map[string]string{
		"index.html":       "<h1>hello</h1>",
		"css/style.css":    "body {}",
		"js/app.js":        "console.log(1)",
		"assets/logo.webp": "RIFF",
	}
	if len(byPath) != len(want) {
		t.Fatalf("collected %d files, want %d: %v", len(byPath), len(want), byPath)
	}
	for path, content := range want {
		if !bytes.Equal(byPath[path], []byte(content)) {
			t.Errorf("%s: content = %q, want %q", path, byPath[path], content)
		}
	}
}

func TestCollectDirectoryDeterministicOrder(t *testing.T) {
	files := map[string][]byte{
		"z.txt":     []byte("z"),
		"a.txt":     []byte("a"),
		"m/n.txt":   []byte("n"),
		"m/a/b.txt": []byte("b"),
	}
	root := testutil.WriteTree(t, files)

	first, err := CollectDirectory(root, WalkOptions{})
	if err != nil {
		t.Fatalf("CollectDirectory() = %v", err)
	}
	second, err := CollectDirectory(root, WalkOptions{})
	if err != nil {
		t.Fatalf("CollectDirectory() = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("walk lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Path != second[i].Path {
			t.Errorf("walk order differs at %d: %v vs %v", i, first[i].Path, second[i].Path)
		}
	}
}

func TestCollectDirectoryExcludes(t *testing.T) {
	root := testutil.WriteTree(t, map[string][]byte{
		"index.html":  []byte("keep"),
		"app.js":      []byte("keep"),
		"app.js.map":  []byte("drop"),
		"main.js.map": []byte("drop"),
	})

	sources, err := CollectDirectory(root, WalkOptions{Exclude: []string{"*.map"}})
	if err != nil {
		t.Fatalf("CollectDirectory() = %v", err)
	}

	for _, source := range sources {
		if source.Path.String() == "app.js.map" || source.Path.String() == "main.js.map" {
			t.Errorf("excluded file %s was collected", source.Path)
		}
	}
	if len(sources) != 2 {
		t.Errorf("collected %d files, want 2", len(sources))
	}
}
