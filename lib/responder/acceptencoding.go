// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package responder

import (
	"strconv"
	"strings"

	"github.com/sitepack-foundation/sitepack/lib/pack"
)

// acceptedEncodings is the parsed form of an Accept-Encoding header:
// the explicit quality assigned to each encoding of interest, plus
// the wildcard quality. Explicit entries always win over the
// wildcard; the wildcard applies only to encodings not named in the
// header.
type acceptedEncodings struct {
	identity, gzip, brotli          float64
	identitySet, gzipSet, brotliSet bool

	wildcard    float64
	wildcardSet bool
}

// parseAcceptEncoding parses the given Accept-Encoding header values
// (one per header line, each a comma-separated list of
// "token[;q=value]" entries). Tokens are case-insensitive. Entries
// with an unparsable q-value are ignored; unknown tokens other than
// the wildcard are ignored.
func parseAcceptEncoding(values []string) acceptedEncodings {
	var accepted acceptedEncodings

	for _, value := range values {
		for _, entry := range strings.Split(value, ",") {
			token, quality, ok := parseEncodingEntry(entry)
			if !ok {
				continue
			}
			switch token {
			case "identity":
				accepted.identity, accepted.identitySet = quality, true
			case "gzip":
				accepted.gzip, accepted.gzipSet = quality, true
			case "br":
				accepted.brotli, accepted.brotliSet = quality, true
			case "*":
				accepted.wildcard, accepted.wildcardSet = quality, true
			}
		}
	}

	return accepted
}

// parseEncodingEntry splits one "token[;q=value]" entry into its
// lowercase token and effective quality (1 when no q parameter is
// given). Returns ok=false for empty or malformed entries.
func parseEncodingEntry(entry string) (token string, quality float64, ok bool) {
	token, parameters, hasParameters := strings.Cut(entry, ";")
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return "", 0, false
	}

	quality = 1
	if hasParameters {
		for _, parameter := range strings.Split(parameters, ";") {
			name, raw, hasValue := strings.Cut(strings.TrimSpace(parameter), "=")
			if !hasValue || !strings.EqualFold(strings.TrimSpace(name), "q") {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil || parsed < 0 || parsed > 1 {
				return "", 0, false
			}
			quality = parsed
		}
	}

	return token, quality, true
}

// qualityFor returns the effective q-value for an encoding:
//
//   - an explicit entry wins,
//   - otherwise the wildcard applies,
//   - otherwise identity is implicitly acceptable with q=1 and the
//     compressed encodings are unacceptable.
//
// An absent Accept-Encoding header is the zero acceptedEncodings,
// which by these rules means "identity;q=1" only.
func (a acceptedEncodings) qualityFor(encoding pack.ContentEncoding) float64 {
	switch encoding {
	case pack.EncodingIdentity:
		if a.identitySet {
			return a.identity
		}
		if a.wildcardSet {
			return a.wildcard
		}
		return 1
	case pack.EncodingGzip:
		if a.gzipSet {
			return a.gzip
		}
		if a.wildcardSet {
			return a.wildcard
		}
		return 0
	case pack.EncodingBrotli:
		if a.brotliSet {
			return a.brotli
		}
		if a.wildcardSet {
			return a.wildcard
		}
		return 0
	default:
		return 0
	}
}

// encodingPreference is the tie-break order among encodings with
// equal quality: prefer the smaller payload.
var encodingPreference = [...]pack.ContentEncoding{
	pack.EncodingBrotli,
	pack.EncodingGzip,
	pack.EncodingIdentity,
}

// negotiate selects the best available encoding for the file given
// the parsed Accept-Encoding. Among encodings with q>0 the highest
// quality wins; ties go to the preference order above. Returns
// ok=false when no available encoding is acceptable.
func negotiate(accepted acceptedEncodings, file pack.ArchivedFile) (pack.ContentEncoding, bool) {
	best := pack.EncodingIdentity
	bestQuality := 0.0
	found := false

	for _, encoding := range encodingPreference {
		if _, available := file.Content(encoding); !available {
			continue
		}
		quality := accepted.qualityFor(encoding)
		if quality <= 0 {
			continue
		}
		// Strict comparison: earlier (preferred) encodings keep
		// wins on equal quality.
		if !found || quality > bestQuality {
			best, bestQuality, found = encoding, quality, true
		}
	}

	return best, found
}
