package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"funclist/internal/apperror"
	"funclist/internal/wire"
)

// Success bodies on the list routes are binary wire messages; error bodies
// are JSON with a stable {"error","message"} shape so clients can parse
// failures without speaking the binary format.

const protobufContentType = "application/protobuf"

// ErrorResponse is the standard error format returned by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeProto(w http.ResponseWriter, status int, m wire.Message) {
	w.Header().Set("Content-Type", protobufContentType)
	w.WriteHeader(status)
	if _, err := w.Write(m.Marshal()); err != nil {
		slog.Error("failed to write response body", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeError maps a domain error to its HTTP status. Unrecognized errors
// become a generic 500 without leaking internals to the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrAuthentication):
			status = http.StatusUnauthorized
			errorType = "authentication_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}
