package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmynk/myfishingdiary/internal/middleware"
	"github.com/mmynk/myfishingdiary/internal/service"
)

// httpStatusFromError maps service errors to HTTP status codes.
func httpStatusFromError(err error) int {
	var notFound *service.NotFoundError
	var accessDenied *service.AccessDeniedError
	var validation *service.ValidationError
	var unauthenticated *service.UnauthenticatedError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(msg string) error {
	return &service.ValidationError{Message: msg}
}

// writeError responds with the status for err and {"message": err}.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	middleware.WriteError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
