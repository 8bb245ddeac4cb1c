// Package handlers implements the HTTP endpoints of the workspace engine.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/spaarke/workspace-engine/internal/interfaces/http/middleware"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// identityFromRequest extracts the authenticated identity set by the auth
// middleware.
func identityFromRequest(r *http.Request) string {
	return middleware.ContextGetIdentity(r.Context())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError serializes any error as an RFC 7807 problem-details body.
func writeError(w http.ResponseWriter, err error) {
	errors.WriteProblem(w, err)
}

// decodeJSONBody decodes a request body, rejecting malformed JSON with a
// validation error rather than an internal one.
func decodeJSONBody(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.NewValidation("request body is not valid JSON")
	}
	return nil
}
