package middleware

import (
	"net/http"

	"github.com/lexdesk/lexdesk/internal/config"
	"github.com/lexdesk/lexdesk/internal/ctxkeys"
)

// Config adds the sanitized app configuration to the request context.
// Credentials and the database connection string are never included.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
