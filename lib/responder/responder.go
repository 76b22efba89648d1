// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package responder

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sitepack-foundation/sitepack/lib/pack"
	"github.com/sitepack-foundation/sitepack/lib/packpath"
)

// DefaultCacheControl is the Cache-Control header value used when
// [Options.CacheControl] is empty. Conservative: clients may cache
// but must revalidate, which the precomputed ETags make a cheap 304.
const DefaultCacheControl = "max-age=0, must-revalidate"

// Options configure a [Responder].
type Options struct {
	// CacheControl overrides the Cache-Control header value sent
	// with every 200 and 304 response. Empty means
	// [DefaultCacheControl].
	CacheControl string
}

// Responder answers request tuples from an archived pack. It is
// stateless with respect to requests and safe for concurrent use;
// create one per pack and share it.
type Responder struct {
	pack         *pack.Archived
	cacheControl string
}

// New creates a responder borrowing the given archived pack. The pack
// buffer must stay alive and unmodified for the responder's lifetime.
func New(archived *pack.Archived, options Options) *Responder {
	cacheControl := options.CacheControl
	if cacheControl == "" {
		cacheControl = DefaultCacheControl
	}
	return &Responder{pack: archived, cacheControl: cacheControl}
}

// Response is one fully-formed HTTP response head plus a borrowed
// body slice. The body aliases the pack buffer; it is nil for HEAD
// responses, 304s, and errors. A HEAD response's Content-Length still
// reflects the would-be body length; 304s and errors carry no
// Content-Length.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ErrorKind distinguishes the request errors a responder can return.
type ErrorKind int

const (
	// KindMethodNotAllowed maps to 405 with "Allow: GET, HEAD".
	KindMethodNotAllowed ErrorKind = iota

	// KindNotFound maps to 404: the path failed validation or is
	// not present in the pack.
	KindNotFound

	// KindNotAcceptable maps to 406: no available content encoding
	// has quality above zero.
	KindNotAcceptable
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case KindMethodNotAllowed:
		return "method not allowed"
	case KindNotFound:
		return "not found"
	case KindNotAcceptable:
		return "not acceptable"
	default:
		return "unknown"
	}
}

// Error is the typed request error returned by [Responder.Respond].
type Error struct {
	Kind ErrorKind
}

func (e *Error) Error() string {
	return e.Kind.String()
}

// Response returns the canonical HTTP response for the error, per the
// flatten table: status code, the error's notable headers, empty
// body.
func (e *Error) Response() Response {
	header := make(http.Header, 1)
	status := http.StatusInternalServerError
	switch e.Kind {
	case KindMethodNotAllowed:
		status = http.StatusMethodNotAllowed
		header.Set("Allow", "GET, HEAD")
	case KindNotFound:
		status = http.StatusNotFound
	case KindNotAcceptable:
		status = http.StatusNotAcceptable
		header.Set("Vary", "Accept-Encoding")
	}
	return Response{StatusCode: status, Header: header}
}

// Respond answers one (method, path, headers) tuple. The path is the
// request URI path, with or without the leading slash. Recognized
// request headers: If-None-Match and Accept-Encoding. On failure the
// returned error is always a [*Error].
//
// The happy path:
//
//  1. reject methods other than GET and HEAD,
//  2. validate the path and look it up in the pack,
//  3. short-circuit to 304 when If-None-Match carries the file's
//     exact ETag,
//  4. negotiate the content encoding,
//  5. emit the response head and (for GET) the borrowed body.
func (r *Responder) Respond(method string, requestPath string, requestHeader http.Header) (Response, error) {
	var includeBody bool
	switch method {
	case http.MethodGet:
		includeBody = true
	case http.MethodHead:
		includeBody = false
	default:
		return Response{}, &Error{Kind: KindMethodNotAllowed}
	}

	path, err := packpath.Parse(strings.TrimPrefix(requestPath, "/"))
	if err != nil {
		return Response{}, &Error{Kind: KindNotFound}
	}
	file, found := r.pack.Lookup(path.String())
	if !found {
		return Response{}, &Error{Kind: KindNotFound}
	}

	if etagMatches(requestHeader.Values("If-None-Match"), file.ETag()) {
		header := make(http.Header, 2)
		header.Set("ETag", file.ETag())
		header.Set("Cache-Control", r.cacheControl)
		return Response{StatusCode: http.StatusNotModified, Header: header}, nil
	}

	encoding, acceptable := negotiate(parseAcceptEncoding(requestHeader.Values("Accept-Encoding")), file)
	if !acceptable {
		return Response{}, &Error{Kind: KindNotAcceptable}
	}
	body, _ := file.Content(encoding)

	header := make(http.Header, 6)
	header.Set("Content-Type", file.ContentType())
	header.Set("Content-Length", strconv.Itoa(len(body)))
	header.Set("ETag", file.ETag())
	header.Set("Cache-Control", r.cacheControl)
	header.Set("Vary", "Accept-Encoding")
	if encoding != pack.EncodingIdentity {
		header.Set("Content-Encoding", encoding.Token())
	}

	response := Response{StatusCode: http.StatusOK, Header: header}
	if includeBody {
		response.Body = body
	}
	return response, nil
}

// RespondFlatten is [Responder.Respond] with errors converted into
// their canonical HTTP responses.
func (r *Responder) RespondFlatten(method string, requestPath string, requestHeader http.Header) Response {
	response, err := r.Respond(method, requestPath, requestHeader)
	if err != nil {
		return err.(*Error).Response()
	}
	return response
}

// etagMatches reports whether any entry of the If-None-Match header
// values equals etag byte for byte (quotes included). Entries are
// compared after trimming optional whitespace around the
// comma-separated list items; no weak-validator or wildcard handling
// — the pack only ever emits strong tags.
func etagMatches(ifNoneMatch []string, etag string) bool {
	for _, value := range ifNoneMatch {
		for _, entry := range strings.Split(value, ",") {
			if strings.TrimSpace(entry) == etag {
				return true
			}
		}
	}
	return false
}
