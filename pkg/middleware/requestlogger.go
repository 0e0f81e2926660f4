package middleware

import (
	"log/slog"
	"net/http"

	"github.com/omega-events/omega-backend/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, pre-enriched
// with correlation ID, user ID, and trace identifiers. Handlers retrieve it
// via logger.FromContext so every log line in a request carries the same
// identifying attributes.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.WithContext(ctx, base)
			next.ServeHTTP(w, r.WithContext(logger.NewContext(ctx, l)))
		})
	}
}
