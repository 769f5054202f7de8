// Package handlers adapts the services to the Functions Framework: CORS,
// status mapping and JSON encoding for HTTP, and event decoding for the
// storage trigger.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/models"
	"github.com/Lllllllleong/summaryflow/internal/services"
	"github.com/google/uuid"
)

// writeJSON sends body with the permissive CORS headers every endpoint shares.
func writeJSON(w http.ResponseWriter, status int, allowMethods string, body any) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "*")
	h.Set("Access-Control-Allow-Methods", allowMethods)
	h.Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, allowMethods, message string) {
	writeJSON(w, status, allowMethods, models.ErrorResponse{Error: message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingParameter),
		errors.Is(err, services.ErrInvalidFilename),
		errors.Is(err, services.ErrInvalidLanguage),
		errors.Is(err, services.ErrUnknownFolder):
		return http.StatusBadRequest
	case errors.Is(err, gcp.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}

// endpoint wraps fn with pre-flight handling, a request-scoped logger and
// panic recovery so nothing escapes the handler boundary.
func endpoint(allowMethods string, fn func(w http.ResponseWriter, r *http.Request, logCtx *slog.Logger)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logCtx := slog.With("requestId", uuid.NewString(), "method", r.Method, "path", r.URL.Path)
		defer func() {
			if rec := recover(); rec != nil {
				logCtx.Error("Recovered from panic in handler", "panic", rec)
				writeError(w, http.StatusInternalServerError, allowMethods, "internal error")
			}
		}()

		if r.Method == http.MethodOptions {
			writeJSON(w, http.StatusOK, allowMethods, models.MessageResponse{Message: "ok"})
			return
		}
		fn(w, r, logCtx)
	}
}

// unavailable answers pre-flight requests and reports a failed service
// initialization as 500 for everything else.
func unavailable(allowMethods string, initErr error) http.HandlerFunc {
	return endpoint(allowMethods, func(w http.ResponseWriter, _ *http.Request, logCtx *slog.Logger) {
		logCtx.Error("Critical: function initialization failed", "error", initErr)
		writeError(w, http.StatusInternalServerError, allowMethods, "failed to initialize service")
	})
}

// fail logs err at a level matching its status and writes the error body.
func fail(w http.ResponseWriter, logCtx *slog.Logger, allowMethods string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logCtx.Error("Request failed", "error", err, "status", status)
	} else {
		logCtx.Warn("Request rejected", "error", err, "status", status)
	}
	writeError(w, status, allowMethods, err.Error())
}
