package middleware

import (
	"net/http"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
)

// WithURLPath adds the request path to the context so the navigation can
// mark the active section.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxkeys.WithURLPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
