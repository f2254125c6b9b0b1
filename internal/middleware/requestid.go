package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/ringshq/rings/internal/ctxkeys"
)

// RequestID assigns a correlation id to every request. It is echoed in the
// X-Request-Id response header and attached to every log line for the
// request, so operators can tie a generic error response to its cause.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-Id", id)
		ctx := ctxkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
