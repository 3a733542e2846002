package handler

// RESPONSE HELPERS:
// Every handler writes through writeJSON / writeError so the API has one
// response format.
//
// CONSISTENT ERROR FORMAT:
// Every error response has the same shape:
//
//	{"statusCode": 404, "message": "item not found with id 7", "error": "Not Found"}
//
// Validation failures carry the full list of violations instead of one
// string:
//
//	{"statusCode": 400, "message": ["name should not be empty"], "error": "Bad Request"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/validate"
)

// maxBodyBytes caps request bodies. Every body this API accepts is a
// small JSON object.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error body. Message is a string, or a
// []string for validation failures.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body. Once Encode writes,
// the headers are gone and later changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent; all we can do is log
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeErrorBody(w http.ResponseWriter, status int, message any) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
// Services return apperror values and never mention HTTP. This is the one
// place where ErrNotFound becomes 404, ErrConflict becomes 409, and so on.
//
// errors.As / errors.Is walk the whole chain, so a service may wrap freely:
//
//	fmt.Errorf("creating user: %w", apperror.Conflict(...))
//	errors.Is walks: outer error → AppError → ErrConflict ✓
func writeError(w http.ResponseWriter, err error) {
	var verr *validate.Errors
	if errors.As(err, &verr) {
		writeErrorBody(w, http.StatusBadRequest, verr.Messages)
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			// single-field failures still use the list form
			writeErrorBody(w, http.StatusBadRequest, []string{appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrRateLimited):
			status = http.StatusTooManyRequests
		}

		writeErrorBody(w, status, appErr.Message)
		return
	}

	// Unknown error: never leak the raw text, it may contain SQL or paths.
	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeErrorBody(w, http.StatusInternalServerError, "An internal error occurred")
}

// decode runs the request body through schema s into dst.
func decode(w http.ResponseWriter, r *http.Request, s validate.Schema, dst any) error {
	return validate.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), s, dst)
}
