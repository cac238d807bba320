package ui

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes c with an implicit 200. A failed render becomes a 500 when
// nothing has been written yet.
func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// RenderStatus writes c under status.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render failed", "path", r.URL.Path, "status", status, "error", err)
	}
}

// RenderOOB wraps c in an htmx out-of-band swap aimed at target, for
// example "beforeend:#toast-container".
func RenderOOB(w http.ResponseWriter, r *http.Request, c templ.Component, target string) {
	wrapped := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if _, err := io.WriteString(out, `<div hx-swap-oob="`+templ.EscapeString(target)+`">`); err != nil {
			return err
		}
		if err := c.Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out, `</div>`)
		return err
	})
	Render(w, r, wrapped)
}

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect sends the client to url, using HX-Redirect for htmx requests.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
