package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other
// packages that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId = "x-request-id"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = HeaderXRequestId
)

// AttachRequestMetadata copies the chi request ID into the request
// context under a typed key and echoes it back in the response header
// so clients can quote it when reporting a problem.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
		w.Header().Set(HeaderXRequestId, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request ID, or "" when none was
// attached. Uses the comma-ok idiom to safely extract the typed value.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}
