// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"strings"
	"testing"

	"github.com/sitepack-foundation/sitepack/lib/packpath"
)

func mustPath(t *testing.T, raw string) packpath.Path {
	t.Helper()
	path, err := packpath.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) = %v", raw, err)
	}
	return path
}

func TestInsertAndLookup(t *testing.T) {
	p := New()
	file := &File{
		ContentType:     "text/plain; charset=utf-8",
		ETag:            `"` + strings.Repeat("ab", 32) + `"`,
		ContentIdentity: []byte("hello"),
	}
	if err := p.Insert(mustPath(t, "a.txt"), file); err != nil {
		t.Fatalf("Insert() = %v", err)
	}

	got, ok := p.Lookup("a.txt")
	if !ok {
		t.Fatal("Lookup(a.txt) not found")
	}
	if got != file {
		t.Error("Lookup returned a different file")
	}

	if _, ok := p.Lookup("missing.txt"); ok {
		t.Error("Lookup(missing.txt) found a file")
	}
}

func TestInsertDuplicateFails(t *testing.T) {
	p := New()
	if err := p.Insert(mustPath(t, "a.txt"), &File{}); err != nil {
		t.Fatalf("first Insert() = %v", err)
	}
	err := p.Insert(mustPath(t, "a.txt"), &File{})
	if err == nil {
		t.Fatal("duplicate Insert() = nil, want error")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %q, want mention of duplicate", err)
	}
}

func TestPathsSorted(t *testing.T) {
	p := New()
	for _, raw := range []string{"z.txt", "a.txt", "m/n.txt"} {
		if err := p.Insert(mustPath(t, raw), &File{}); err != nil {
			t.Fatal(err)
		}
	}
	paths := p.Paths()
	want := []string{"a.txt", "m/n.txt", "z.txt"}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestContentEncodingToken(t *testing.T) {
	cases := []struct {
		encoding ContentEncoding
		token    string
	}{
		{EncodingIdentity, "identity"},
		{EncodingGzip, "gzip"},
		{EncodingBrotli, "br"},
	}
	for _, c := range cases {
		if got := c.encoding.Token(); got != c.token {
			t.Errorf("%v.Token() = %q, want %q", c.encoding, got, c.token)
		}
	}
}

func TestFileContent(t *testing.T) {
	file := &File{
		ContentIdentity: []byte("identity"),
		ContentGzip:     []byte("gz"),
	}

	if data, ok := file.Content(EncodingIdentity); !ok || string(data) != "identity" {
		t.Errorf("Content(identity) = %q, %v", data, ok)
	}
	if data, ok := file.Content(EncodingGzip); !ok || string(data) != "gz" {
		t.Errorf("Content(gzip) = %q, %v", data, ok)
	}
	if _, ok := file.Content(EncodingBrotli); ok {
		t.Error("Content(brotli) present, want absent")
	}
}

func TestBucketCountFor(t *testing.T) {
	cases := []struct {
		files int
		want  uint32
	}{
		{0, 8},
		{1, 8},
		{4, 8},
		{5, 16},
		{8, 16},
		{9, 32},
		{1000, 2048},
	}
	for _, c := range cases {
		if got := bucketCountFor(c.files); got != c.want {
			t.Errorf("bucketCountFor(%d) = %d, want %d", c.files, got, c.want)
		}
	}
}
