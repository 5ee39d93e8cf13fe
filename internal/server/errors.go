// internal/server/errors.go
package server

import (
	"errors"
	"fmt"
	"net/http"

	"mcp-dosage-safety/internal/engine"
	"mcp-dosage-safety/internal/storage"
)

// ErrorBody is the single structured error object returned to callers.
type ErrorBody struct {
	Type    string   `json:"type"`
	Field   string   `json:"field,omitempty"`
	Message string   `json:"message"`
	IDs     []string `json:"ids,omitempty"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

// requestError marks malformed input that never reached the engine.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// classify maps an error onto an HTTP status and its public body.
func classify(err error) (int, ErrorBody) {
	var (
		validation *engine.ValidationError
		notFound   *engine.SupplementNotFoundError
		request    *requestError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorBody{Type: "validation_error", Field: validation.Field, Message: validation.Message}
	case errors.As(err, &request):
		return http.StatusBadRequest, ErrorBody{Type: "invalid_request", Message: request.msg}
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorBody{Type: "supplement_not_found", Message: notFound.Error(), IDs: notFound.IDs}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Type: "not_found", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Type: "internal_error", Message: "internal error"}
	}
}
