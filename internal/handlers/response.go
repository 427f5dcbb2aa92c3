package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/catalogd/catalogd/internal/observability"
	"github.com/catalogd/catalogd/internal/services"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_SERVER_ERROR"

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Envelope wraps every API response body.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp string    `json:"timestamp"`
}

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func timestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

func (h *Handlers) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.loggerFromContext(ctx).Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeData(ctx context.Context, w http.ResponseWriter, data any) {
	h.writeJSON(ctx, w, http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: timestamp(),
	})
}

func (h *Handlers) writeError(ctx context.Context, w http.ResponseWriter, status int, apiErr *APIError) {
	h.writeJSON(ctx, w, status, Envelope{
		Success:   false,
		Error:     apiErr,
		Timestamp: timestamp(),
	})
}

// writeServiceError maps a service failure to its HTTP status and error code.
// Internal causes are only exposed in development.
func (h *Handlers) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var serviceErr *services.Error
	if !errors.As(err, &serviceErr) {
		serviceErr = &services.Error{Kind: services.KindInternal, Message: "Internal server error", Err: err}
	}

	switch serviceErr.Kind {
	case services.KindValidation:
		apiErr := &APIError{Message: serviceErr.Message, Code: CodeValidation}
		if len(serviceErr.Fields) > 0 {
			apiErr.Details = serviceErr.Fields
		}
		h.writeError(ctx, w, http.StatusBadRequest, apiErr)
	case services.KindNotFound:
		h.writeError(ctx, w, http.StatusNotFound, &APIError{Message: serviceErr.Message, Code: CodeNotFound})
	default:
		observability.Catalog(ctx).InternalError()
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		}
		h.loggerFromContext(ctx).Error("request failed", "error", err)

		apiErr := &APIError{Message: "Internal server error", Code: CodeInternal}
		if h.config != nil && h.config.IsDevelopment() {
			apiErr.Details = err.Error()
		}
		h.writeError(ctx, w, http.StatusInternalServerError, apiErr)
	}
}

// NotFound answers unmatched routes with the standard envelope.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(r.Context(), w, http.StatusNotFound, &APIError{
		Message: "Route not found",
		Code:    CodeNotFound,
	})
}
