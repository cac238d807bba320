package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/lexdesk/lexdesk/internal/config"
)

func TestSecurityHeaders(t *testing.T) {
	var nonce string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce = templ.GetNonce(r.Context())
	})

	tests := []struct {
		env      string
		wantHSTS bool
	}{
		{config.EnvDevelopment, false},
		{config.EnvProduction, true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &config.Config{AppEnv: tt.env, S3Endpoint: "https://minio.local"}
			h := Config(cfg)(NonceMiddleware(SecurityHeaders(inner)))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if nonce == "" {
				t.Fatal("no nonce in request context")
			}
			csp := rec.Header().Get("Content-Security-Policy")
			for _, want := range []string{"'nonce-" + nonce + "'", "img-src 'self' data: https://minio.local", "object-src 'none'"} {
				if !strings.Contains(csp, want) {
					t.Errorf("CSP = %q, want it to contain %q", csp, want)
				}
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q", got)
			}
			hsts := rec.Header().Get("Strict-Transport-Security") != ""
			if hsts != tt.wantHSTS {
				t.Errorf("HSTS set = %v, want %v", hsts, tt.wantHSTS)
			}
		})
	}
}
