package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/service"
)

// ActingUser resolves the acting user from the email in the trusted proxy
// header and adds it to the context. Requests without the header, or with
// an unknown email, continue without a user. An empty header name disables
// the lookup.
func ActingUser(userService *service.UserService, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if header == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.TrimSpace(r.Header.Get(header))
			if email == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByEmail(email)
			if err != nil {
				if !errors.Is(err, repository.ErrUserNotFound) {
					slog.Error("failed to resolve acting user", "error", err, "email", email)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
