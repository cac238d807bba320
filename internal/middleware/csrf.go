package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
)

const (
	csrfCookie = "csrf_token"
	csrfField  = "csrf_token"
	csrfHeader = "X-CSRF-Token"
	csrfBytes  = 32
)

var csrfTokenLength = base64.RawURLEncoding.EncodedLen(csrfBytes)

// CSRFProtection is a double-submit cookie check. Every request gets a
// token in its context for forms to embed; unsafe methods must echo it in
// the X-CSRF-Token header or the csrf_token form field.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := csrfToken(w, r)
		r = r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token))

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		submitted := r.Header.Get(csrfHeader)
		if submitted == "" {
			submitted = r.PostFormValue(csrfField)
		}
		if submitted == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
			slog.Warn("csrf check failed", "method", r.Method, "path", r.URL.Path, "ip", getClientIP(r))
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// csrfToken returns the token from the request cookie, issuing a new cookie
// when it is missing or malformed.
func csrfToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookie); err == nil && len(c.Value) == csrfTokenLength {
		return c.Value
	}

	b := make([]byte, csrfBytes)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: " + err.Error())
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   7 * 24 * 60 * 60,
	})
	return token
}
