// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"path"
	"strings"
)

// octetStream is the fallback content type for unknown extensions.
const octetStream = "application/octet-stream"

// contentTypes maps lowercase file extensions to MIME types. The
// table is fixed rather than delegating to mime.TypeByExtension: the
// stdlib consults OS mime databases, which would make pack output
// vary between build hosts and break bytewise determinism.
//
// JavaScript is "text/javascript" per WHATWG (the legacy
// "application/javascript" registration is obsolete).
var contentTypes = map[string]string{
	".avif":        "image/avif",
	".css":         "text/css",
	".csv":         "text/csv",
	".eot":         "application/vnd.ms-fontobject",
	".gif":         "image/gif",
	".gz":          "application/gzip",
	".htm":         "text/html",
	".html":        "text/html",
	".ico":         "image/vnd.microsoft.icon",
	".jpeg":        "image/jpeg",
	".jpg":         "image/jpeg",
	".js":          "text/javascript",
	".json":        "application/json",
	".map":         "application/json",
	".md":          "text/markdown",
	".mjs":         "text/javascript",
	".mp3":         "audio/mpeg",
	".mp4":         "video/mp4",
	".ogg":         "audio/ogg",
	".otf":         "font/otf",
	".pdf":         "application/pdf",
	".png":         "image/png",
	".svg":         "image/svg+xml",
	".ttf":         "font/ttf",
	".txt":         "text/plain",
	".wasm":        "application/wasm",
	".webm":        "video/webm",
	".webmanifest": "application/manifest+json",
	".webp":        "image/webp",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".xml":         "text/xml",
	".zip":         "application/zip",
}

// ContentTypeForPath infers the Content-Type header value from the
// last segment's extension. Unknown extensions map to
// "application/octet-stream". Types in the text top-level category
// get a "; charset=utf-8" parameter — packed text is assumed to be
// UTF-8.
func ContentTypeForPath(packPath string) string {
	extension := strings.ToLower(path.Ext(packPath))
	contentType, known := contentTypes[extension]
	if !known {
		return octetStream
	}
	return withTextCharset(contentType)
}

// withTextCharset appends "; charset=utf-8" to text/* types that are
// not already parameterized.
func withTextCharset(contentType string) string {
	if strings.HasPrefix(contentType, "text/") && !strings.Contains(contentType, ";") {
		return contentType + "; charset=utf-8"
	}
	return contentType
}
