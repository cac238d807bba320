package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

var notFoundErrors = []error{
	repository.ErrCaseNotFound,
	repository.ErrClientNotFound,
	repository.ErrDocumentNotFound,
	repository.ErrTemplateNotFound,
	repository.ErrCustomFieldNotFound,
	repository.ErrNoteNotFound,
	repository.ErrEventNotFound,
	repository.ErrPersonNotFound,
}

func isNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func notFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.Status("Not found", "The page you asked for does not exist."))
}

// fail answers a lookup or write error: 404 for missing records, 500 with a
// log line otherwise.
func fail(w http.ResponseWriter, r *http.Request, msg string, err error, args ...any) {
	if isNotFound(err) {
		notFound(w, r)
		return
	}
	slog.Error(msg, append([]any{"error", err}, args...)...)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// bind parses the posted form into f. A malformed body is reported as a
// form error.
func bind(r *http.Request, f *form.Form) bool {
	err := r.ParseForm()
	if err != nil {
		f.AddError("", "The form could not be read.")
		return false
	}
	return f.Bind(r.PostForm)
}

// backTo returns the same-origin referring path, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	if ref.Host != "" && ref.Host != r.Host {
		return fallback
	}
	return ref.Path
}
