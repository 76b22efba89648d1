// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package responder

import (
	"bytes"
	"crypto/rand"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/sitepack-foundation/sitepack/lib/pack"
	"github.com/sitepack-foundation/sitepack/lib/packer"
	"github.com/sitepack-foundation/sitepack/lib/packpath"
)

// fixture bundles the archived pack with the builder-side originals
// so tests can compare response bodies against exact variants.
type fixture struct {
	archived  *pack.Archived
	responder *Responder
	built     *pack.Pack
}

func newFixture(t *testing.T, options Options) *fixture {
	t.Helper()

	randomContent := make([]byte, 600)
	rand.Read(randomContent)

	sources := []packer.Source{
		{Path: mustPath(t, "index.html"), Content: []byte("x")},
		{Path: mustPath(t, "style.css"), Content: bytes.Repeat([]byte("div.card { border-radius: 4px; margin: 0 }\n"), 96)},
		{Path: mustPath(t, "data.bin"), Content: randomContent},
	}
	built, err := packer.Build(sources, packer.DefaultOptions())
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	buffer, err := built.Serialize()
	if err != nil {
		t.Fatalf("Serialize() = %v", err)
	}
	archived, err := pack.Load(pack.Aligned(buffer))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	// The CSS fixture must carry both compressed variants for the
	// negotiation tests to mean anything.
	css, _ := built.Lookup("style.css")
	if css.ContentGzip == nil || css.ContentBrotli == nil {
		t.Fatal("style.css fixture lacks compressed variants")
	}

	return &fixture{
		archived:  archived,
		responder: New(archived, options),
		built:     built,
	}
}

func mustPath(t *testing.T, raw string) packpath.Path {
	t.Helper()
	path, err := packpath.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) = %v", raw, err)
	}
	return path
}

func requestHeader(pairs ...string) http.Header {
	header := make(http.Header)
	for i := 0; i < len(pairs); i += 2 {
		header.Add(pairs[i], pairs[i+1])
	}
	return header
}

func respondOK(t *testing.T, f *fixture, method, path string, header http.Header) Response {
	t.Helper()
	response, err := f.responder.Respond(method, path, header)
	if err != nil {
		t.Fatalf("Respond(%s %s) = %v", method, path, err)
	}
	return response
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatal("Respond() = nil, want error")
	}
	var respondError *Error
	if !errors.As(err, &respondError) {
		t.Fatalf("Respond() error type %T, want *Error", err)
	}
	if respondError.Kind != kind {
		t.Fatalf("error kind = %v, want %v", respondError.Kind, kind)
	}
}

func TestGetWithoutAcceptEncoding(t *testing.T) {
	f := newFixture(t, Options{})
	css, _ := f.built.Lookup("style.css")

	response := respondOK(t, f, http.MethodGet, "/style.css", requestHeader())

	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}
	if got := response.Header.Get("Content-Type"); got != "text/css; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := response.Header.Get("Content-Length"); got != strconv.Itoa(len(css.ContentIdentity)) {
		t.Errorf("Content-Length = %q, want %d", got, len(css.ContentIdentity))
	}
	if got := response.Header.Get("ETag"); got != css.ETag {
		t.Errorf("ETag = %q, want %q", got, css.ETag)
	}
	if got := response.Header.Get("Cache-Control"); got != DefaultCacheControl {
		t.Errorf("Cache-Control = %q, want default %q", got, DefaultCacheControl)
	}
	if got := response.Header.Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("Vary = %q", got)
	}
	if got := response.Header.Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want omitted for identity", got)
	}
	if !bytes.Equal(response.Body, css.ContentIdentity) {
		t.Error("body is not the identity bytes")
	}
}

func TestHeadHasHeadersButNoBody(t *testing.T) {
	f := newFixture(t, Options{})
	css, _ := f.built.Lookup("style.css")

	response := respondOK(t, f, http.MethodHead, "/style.css", requestHeader())

	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}
	if response.Body != nil {
		t.Error("HEAD response carries a body")
	}
	// Content-Length still reflects the would-be body.
	if got := response.Header.Get("Content-Length"); got != strconv.Itoa(len(css.ContentIdentity)) {
		t.Errorf("Content-Length = %q, want %d", got, len(css.ContentIdentity))
	}
}

func TestIfNoneMatchShortCircuits(t *testing.T) {
	f := newFixture(t, Options{})
	index, _ := f.built.Lookup("index.html")

	response := respondOK(t, f, http.MethodGet, "/index.html",
		requestHeader("If-None-Match", index.ETag))

	if response.StatusCode != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", response.StatusCode)
	}
	if response.Body != nil {
		t.Error("304 response carries a body")
	}
	if got := response.Header.Get("ETag"); got != index.ETag {
		t.Errorf("ETag = %q, want %q", got, index.ETag)
	}
	if got := response.Header.Get("Cache-Control"); got != DefaultCacheControl {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := response.Header.Get("Content-Type"); got != "" {
		t.Errorf("Content-Type = %q, want absent on 304", got)
	}
}

func TestIfNoneMatchList(t *testing.T) {
	f := newFixture(t, Options{})
	index, _ := f.built.Lookup("index.html")

	// The matching tag buried in a list still triggers the 304.
	response := respondOK(t, f, http.MethodGet, "/index.html",
		requestHeader("If-None-Match", `"deadbeef", `+index.ETag+`, "cafebabe"`))
	if response.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304", response.StatusCode)
	}

	// A non-matching tag does not.
	response = respondOK(t, f, http.MethodGet, "/index.html",
		requestHeader("If-None-Match", `"deadbeef"`))
	if response.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", response.StatusCode)
	}
}

func TestBrotliSelected(t *testing.T) {
	f := newFixture(t, Options{})
	css, _ := f.built.Lookup("style.css")

	response := respondOK(t, f, http.MethodGet, "/style.css",
		requestHeader("Accept-Encoding", "br"))

	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}
	if got := response.Header.Get("Content-Encoding"); got != "br" {
		t.Errorf("Content-Encoding = %q, want br", got)
	}
	if !bytes.Equal(response.Body, css.ContentBrotli) {
		t.Error("body is not the brotli variant")
	}
	if got := response.Header.Get("Content-Length"); got != strconv.Itoa(len(css.ContentBrotli)) {
		t.Errorf("Content-Length = %q, want %d", got, len(css.ContentBrotli))
	}
}

func TestQualityBeatsPreferenceOrder(t *testing.T) {
	// gzip at implicit q=1 beats brotli at q=0.9 even though the
	// tie-break order prefers brotli.
	f := newFixture(t, Options{})
	css, _ := f.built.Lookup("style.css")

	response := respondOK(t, f, http.MethodGet, "/style.css",
		requestHeader("Accept-Encoding", "gzip, br;q=0.9"))

	if got := response.Header.Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
	if !bytes.Equal(response.Body, css.ContentGzip) {
		t.Error("body is not the gzip variant")
	}
}

func TestEqualQualityTieBreaksToBrotli(t *testing.T) {
	f := newFixture(t, Options{})
	css, _ := f.built.Lookup("style.css")

	response := respondOK(t, f, http.MethodGet, "/style.css",
		requestHeader("Accept-Encoding", "gzip, br"))

	if got := response.Header.Get("Content-Encoding"); got != "br" {
		t.Errorf("Content-Encoding = %q, want br on tie", got)
	}
	if !bytes.Equal(response.Body, css.ContentBrotli) {
		t.Error("body is not the brotli variant")
	}
}

func TestIdentityExcludedIsNotAcceptable(t *testing.T) {
	f := newFixture(t, Options{})

	// data.bin has only the identity encoding (incompressible).
	_, err := f.responder.Respond(http.MethodGet, "/data.bin",
		requestHeader("Accept-Encoding", "identity;q=0"))
	requireKind(t, err, KindNotAcceptable)

	flattened := f.responder.RespondFlatten(http.MethodGet, "/data.bin",
		requestHeader("Accept-Encoding", "identity;q=0"))
	if flattened.StatusCode != http.StatusNotAcceptable {
		t.Errorf("status = %d, want 406", flattened.StatusCode)
	}
	if got := flattened.Header.Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("Vary = %q, want Accept-Encoding on 406", got)
	}
}

func TestWildcardZeroIsNotAcceptable(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.responder.Respond(http.MethodGet, "/data.bin",
		requestHeader("Accept-Encoding", "*;q=0"))
	requireKind(t, err, KindNotAcceptable)
}

func TestCompressedFallsBackToIdentity(t *testing.T) {
	// Asking for encodings the file does not have falls back to
	// identity (implicitly acceptable).
	f := newFixture(t, Options{})
	data, _ := f.built.Lookup("data.bin")

	response := respondOK(t, f, http.MethodGet, "/data.bin",
		requestHeader("Accept-Encoding", "gzip, br"))

	if got := response.Header.Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want omitted", got)
	}
	if !bytes.Equal(response.Body, data.ContentIdentity) {
		t.Error("body is not the identity bytes")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, Options{})

	for _, method := range []string{http.MethodPost, http.MethodDelete, http.MethodPut, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			_, err := f.responder.Respond(method, "/index.html", requestHeader())
			requireKind(t, err, KindMethodNotAllowed)

			flattened := f.responder.RespondFlatten(method, "/index.html", requestHeader())
			if flattened.StatusCode != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want 405", flattened.StatusCode)
			}
			if got := flattened.Header.Get("Allow"); got != "GET, HEAD" {
				t.Errorf("Allow = %q, want \"GET, HEAD\"", got)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	f := newFixture(t, Options{})

	for _, path := range []string{
		"/missing.html",
		"/../etc/passwd",
		"/./index.html",
		"//index.html",
		"/index.html/",
		"/dir\\file",
	} {
		t.Run(path, func(t *testing.T) {
			_, err := f.responder.Respond(http.MethodGet, path, requestHeader())
			requireKind(t, err, KindNotFound)

			flattened := f.responder.RespondFlatten(http.MethodGet, path, requestHeader())
			if flattened.StatusCode != http.StatusNotFound {
				t.Errorf("status = %d, want 404", flattened.StatusCode)
			}
		})
	}
}

func TestCacheControlOverride(t *testing.T) {
	f := newFixture(t, Options{CacheControl: "max-age=31536000, immutable"})

	response := respondOK(t, f, http.MethodGet, "/index.html", requestHeader())
	if got := response.Header.Get("Cache-Control"); got != "max-age=31536000, immutable" {
		t.Errorf("Cache-Control = %q, want override", got)
	}
}

func TestETagIsQuotedHex(t *testing.T) {
	f := newFixture(t, Options{})
	response := respondOK(t, f, http.MethodGet, "/index.html", requestHeader())

	etag := response.Header.Get("ETag")
	if !strings.HasPrefix(etag, `"`) || !strings.HasSuffix(etag, `"`) || len(etag) != 66 {
		t.Errorf("ETag = %q, want quoted 64-char hex", etag)
	}
}
