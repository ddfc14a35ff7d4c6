package response

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/contextutils"
	"github.com/githubscientist/jp-backend/internal/models"
	"github.com/githubscientist/jp-backend/internal/services"
)

// Envelope is the wire shape of every API response. Success payloads
// carry their data under resource-specific keys next to the flag;
// list payloads add count/total/totalPages/currentPage.
type Envelope map[string]interface{}

// Builder writes JSON envelopes and logs failures with request context.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// WriteJSON writes an envelope with the given status code.
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, status int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if requestID := contextutils.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		b.logger.Error("Failed to encode response",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

// Success writes a 200 envelope. Extra payload keys sit at the top
// level next to the success flag.
func (b *Builder) Success(w http.ResponseWriter, r *http.Request, payload Envelope) {
	b.writeSuccess(w, r, http.StatusOK, "", payload)
}

// SuccessMessage writes a 200 envelope with a message.
func (b *Builder) SuccessMessage(w http.ResponseWriter, r *http.Request, message string, payload Envelope) {
	b.writeSuccess(w, r, http.StatusOK, message, payload)
}

// Created writes a 201 envelope with a message.
func (b *Builder) Created(w http.ResponseWriter, r *http.Request, message string, payload Envelope) {
	b.writeSuccess(w, r, http.StatusCreated, message, payload)
}

func (b *Builder) writeSuccess(w http.ResponseWriter, r *http.Request, status int, message string, payload Envelope) {
	envelope := Envelope{"success": true}
	if message != "" {
		envelope["message"] = message
	}
	for key, value := range payload {
		envelope[key] = value
	}
	b.WriteJSON(w, r, status, envelope)
}

// List writes a paginated listing: the items under key, plus page
// metadata at the top level.
func (b *Builder) List(w http.ResponseWriter, r *http.Request, key string, items interface{}, page models.Pagination, total int64, extra Envelope) {
	envelope := Envelope{
		"success":     true,
		key:           items,
		"count":       itemCount(items),
		"total":       total,
		"totalPages":  page.TotalPages(total),
		"currentPage": page.Page,
	}
	for k, v := range extra {
		envelope[k] = v
	}
	b.WriteJSON(w, r, http.StatusOK, envelope)
}

func itemCount(items interface{}) int {
	switch v := items.(type) {
	case []models.Job:
		return len(v)
	case []models.Application:
		return len(v)
	case []models.User:
		return len(v)
	default:
		return 0
	}
}

// Error maps a service error onto its HTTP status and writes the
// failure envelope. Unknown errors become opaque 500s.
func (b *Builder) Error(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := services.GetServiceError(err)
	if serviceErr.Type == services.TypeInternal {
		b.logger.Error("Internal error",
			zap.String("path", r.URL.Path),
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.Error(serviceErr),
		)
	}

	envelope := Envelope{
		"success": false,
		"message": serviceErr.Message,
	}
	if len(serviceErr.Fields) > 0 {
		envelope["errors"] = serviceErr.Fields
	}
	b.WriteJSON(w, r, serviceErr.GetStatusCode(), envelope)
}

// NotFoundHandler serves the envelope for unmatched routes.
func (b *Builder) NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.WriteJSON(w, r, http.StatusNotFound, Envelope{
			"success": false,
			"message": "Route " + r.URL.Path + " not found",
		})
	})
}

// ===============================
// CONTEXT HELPERS
// ===============================

type builderKey struct{}

// SetBuilder stores the builder in the context.
func SetBuilder(ctx context.Context, builder *Builder) context.Context {
	return context.WithValue(ctx, builderKey{}, builder)
}

// GetBuilder retrieves the builder from the context, falling back to
// a bare builder so handlers never nil-panic.
func GetBuilder(ctx context.Context) *Builder {
	if builder, ok := ctx.Value(builderKey{}).(*Builder); ok {
		return builder
	}
	return NewBuilder(zap.NewNop())
}

// Middleware injects the builder into every request context.
func Middleware(builder *Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(SetBuilder(r.Context(), builder)))
		})
	}
}
