package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"leasehold/pkg/requestcontext"
)

// RequestID attaches a correlation ID to every request. An incoming
// X-Request-ID header is trusted if present so upstream proxies can
// correlate; otherwise a fresh UUID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := requestcontext.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
