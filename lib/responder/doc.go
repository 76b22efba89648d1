// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// Package responder answers HTTP GET and HEAD requests from an
// archived pack. A [Responder] holds only a borrow of the pack and a
// precomputed Cache-Control value; every call is a single pass over
// immutable data with no I/O, so a Responder is safe for unlimited
// concurrent use.
//
// [Responder.Respond] returns a [Response] or a typed [*Error];
// [Responder.RespondFlatten] converts errors into their canonical
// HTTP responses (405 with Allow, 404, 406 with Vary). Response
// bodies are borrowed slices into the pack buffer — they share the
// buffer's lifetime and must not be modified.
//
// The package also implements net/http integration: a Responder is an
// http.Handler that replays RespondFlatten results onto the
// ResponseWriter.
package responder
