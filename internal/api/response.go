package api

import (
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"
)

// API error codes, mirroring the typed failures of the original callable
// surface.
const (
	errCodeInvalidArgument   = "invalid_argument"
	errCodeResourceExhausted = "resource_exhausted"
	errCodePermissionDenied  = "permission_denied"
	errCodeUnauthenticated   = "unauthenticated"
	errCodeNotFound          = "not_found"
	errCodeInternal          = "internal"
)

// Error represents a normalized API error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool  `json:"success" example:"false"`
	Error   Error `json:"error"`
}

// decodeJSONBody decodes a request body with strict unknown-field and trailing-token checks.
func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		return ErrMultipleJSONObjects
	}

	return nil
}

// writeJSON writes a JSON response and logs serialization failures.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Int("status", status).Msg("failed to encode JSON response")
	}
}

// respondError sends a normalized error payload.
func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   Error{Code: code, Message: message},
	})
}

// respondInternal logs the underlying error server-side and returns a
// generic internal error; exception detail never reaches the caller.
func respondInternal(w http.ResponseWriter, err error, context string) {
	log.Error().Err(err).Msg(context)
	respondError(w, http.StatusInternalServerError, errCodeInternal, "an internal error occurred")
}

// clientIP returns the caller's IP. The RealIP middleware has already
// resolved forwarding headers into RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
