package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rilsonjoas/alternativas-br-sub001/pkg/logger"
)

// Headers identifying who owns the search session. A signed-in user id wins
// over the anonymous visitor id the front-end keeps in local storage.
const (
	UserIDHeader    = "X-User-ID"
	VisitorIDHeader = "X-Visitor-ID"
)

// OwnerFromRequest returns the session owner taken from the identity headers,
// or "" for a fully anonymous request.
func OwnerFromRequest(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get(VisitorIDHeader))
}

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// owner_id, trace_id and span_id and stores it in the request context, where
// handlers retrieve it with logger.FromContext. Mount it after RequestLogging
// and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if owner := OwnerFromRequest(r); owner != "" {
				ctx = logger.WithOwnerID(ctx, owner)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
