// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package responder

import "net/http"

// ServeHTTP makes a Responder an [http.Handler]: it answers the
// request with [Responder.RespondFlatten] and replays the result onto
// the writer. The borrowed body is written out, never retained, so
// the handler is compatible with any server as long as the pack
// buffer outlives it.
func (r *Responder) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	response := r.RespondFlatten(request.Method, request.URL.Path, request.Header)

	responseHeader := writer.Header()
	for name, values := range response.Header {
		responseHeader[name] = values
	}
	writer.WriteHeader(response.StatusCode)
	if len(response.Body) > 0 {
		// Write errors mean the client went away; there is nothing
		// useful to do with them here.
		_, _ = writer.Write(response.Body)
	}
}
