package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/balkashynov/tempo/internal/apperr"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Envelope wraps every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// the status line is already out; nothing useful to do on failure
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// writeError maps a coded error to its status. Internal errors are logged in
// full and replaced by a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal {
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(requestIDHeader),
			"error", err,
		)
	}
	writeJSON(w, code.HTTPStatus(), Envelope{Message: apperr.PublicMessage(err)})
}

// readJSON decodes the request body into v.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Newf(apperr.CodeInvalidArgument, "request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.CodeInvalidArgument, "request body is required")
		default:
			return apperr.Newf(apperr.CodeInvalidArgument, "invalid JSON: %v", err)
		}
	}
	return nil
}

// pathID parses the named path segment as a positive id.
func pathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Newf(apperr.CodeInvalidArgument, "%s must be a positive integer, got %q", name, raw)
	}
	return uint(id), nil
}

// bodyID validates an id taken from a request body.
func bodyID(name string, v int64) (uint, error) {
	if v <= 0 || v > int64(^uint32(0)) {
		return 0, apperr.Newf(apperr.CodeInvalidArgument, "%s must be a positive integer", name)
	}
	return uint(v), nil
}
