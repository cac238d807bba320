package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/components/toast"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

// previewCSP applies to stored documents served as HTML: no scripts, no
// network, inline styles only.
const previewCSP = "sandbox; default-src 'none'; style-src 'unsafe-inline'; img-src data:"

type DocumentHandler struct {
	documentService *service.DocumentService
	templateService *service.TemplateService
}

func NewDocumentHandler(documentService *service.DocumentService, templateService *service.TemplateService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		templateService: templateService,
	}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = model.DocumentSortRecentlyAdded
	}

	items, err := h.documentService.Documents(sortBy)
	if err != nil {
		fail(w, r, "failed to list documents", err, "sort", sortBy)
		return
	}

	ui.Render(w, r, pages.DocumentList(items, sortBy))
}

func (h *DocumentHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := h.documentService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load document", err, "document_id", id)
		return
	}

	ui.Render(w, r, pages.DocumentPage(doc))
}

// Preview serves the stored HTML of a document. A stored path outside the
// upload directory is refused with 403.
func (h *DocumentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, content, err := h.documentService.Preview(id)
	if err != nil {
		h.fileError(w, r, err, "document_id", id)
		return
	}

	slog.Debug("document previewed", "document_id", doc.ID)
	writeDocument(w, content)
}

// File serves a stored file by key, the URL local storage hands out.
func (h *DocumentHandler) File(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("path")

	content, err := h.documentService.ReadFile(key)
	if err != nil {
		h.fileError(w, r, err, "key", key)
		return
	}

	if strings.HasSuffix(key, ".html") {
		writeDocument(w, content)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, err = w.Write(content)
	if err != nil {
		slog.Debug("file write failed", "error", err, "key", key)
	}
}

func (h *DocumentHandler) fileError(w http.ResponseWriter, r *http.Request, err error, args ...any) {
	switch {
	case errors.Is(err, service.ErrForbiddenPath):
		slog.Warn("refused document path", append([]any{"error", err}, args...)...)
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrDocumentFile):
		slog.Warn("document file missing", append([]any{"error", err}, args...)...)
		http.Error(w, "document file not found", http.StatusNotFound)
	default:
		fail(w, r, "failed to read document", err, args...)
	}
}

func writeDocument(w http.ResponseWriter, content []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", previewCSP)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, err := w.Write(content)
	if err != nil {
		slog.Debug("document write failed", "error", err)
	}
}

func (h *DocumentHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, data, err := h.documentService.PDFBytes(id)
	if err != nil {
		h.fileError(w, r, err, "document_id", id)
		return
	}

	name := strings.TrimSuffix(doc.Filename, ".html") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	_, err = w.Write(data)
	if err != nil {
		slog.Debug("pdf write failed", "error", err, "document_id", id)
	}
}

func (h *DocumentHandler) Send(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, recipient, err := h.documentService.Send(r.Context(), id)
	switch {
	case err == nil:
		slog.Info("document sent", "document_id", id, "to", recipient)
		r = toast.Push(r, toast.Success("Document sent", "Emailed to "+recipient+"."))
	case errors.Is(err, service.ErrNoRecipient):
		r = toast.Push(r, toast.Warning("Not sent", "The case has no client with an email address."))
	case errors.Is(err, service.ErrForbiddenPath), errors.Is(err, service.ErrDocumentFile):
		h.fileError(w, r, err, "document_id", id)
		return
	case doc == nil:
		fail(w, r, "failed to send document", err, "document_id", id)
		return
	default:
		slog.Error("failed to send document", "error", err, "document_id", id)
		r = toast.Push(r, toast.Error("Not sent", "The email could not be sent. Try again later."))
	}

	ui.Render(w, r, pages.DocumentPage(doc))
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.documentService.Delete(id)
	if err != nil {
		fail(w, r, "failed to delete document", err, "document_id", id)
		return
	}

	slog.Info("document deleted", "document_id", id)
	ui.Redirect(w, r, "/documents")
}

func (h *DocumentHandler) BulkPage(w http.ResponseWriter, r *http.Request) {
	f, err := h.documentService.BulkGenerateForm()
	if err != nil {
		fail(w, r, "failed to build generate form", err)
		return
	}
	if caseID := r.URL.Query().Get("case_id"); caseID != "" {
		f.Field("case_id").Set(caseID)
	}

	ui.Render(w, r, pages.BulkPage(f, nil))
}

func (h *DocumentHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	f, err := h.documentService.BulkGenerateForm()
	if err != nil {
		fail(w, r, "failed to build generate form", err)
		return
	}
	bind(r, f.Form)

	slugs, rejected, ok := f.Slugs()
	if !ok || !f.Valid() {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.BulkPage(f, nil))
		return
	}

	result, err := generate(h.documentService, f.String("case_id"), slugs, rejected, user)
	if isNotFound(err) {
		f.AddError("case_id", "Case not found.")
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.BulkPage(f, nil))
		return
	}
	r = pushResult(r, result, err)

	ui.Render(w, r, pages.BulkPage(f, result))
}

func (h *DocumentHandler) FromTemplatePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f, err := h.documentService.TemplateGenerateForm(q.Get("template_id"), q.Get("case_id"))
	if err != nil {
		fail(w, r, "failed to build template form", err)
		return
	}

	ui.Render(w, r, pages.TemplateGeneratePage(f))
}

func (h *DocumentHandler) FromTemplate(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	f, err := h.documentService.TemplateGenerateForm("", "")
	if err != nil {
		fail(w, r, "failed to build template form", err)
		return
	}
	if !bind(r, f) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.TemplateGeneratePage(f))
		return
	}

	doc, err := h.documentService.GenerateFromTemplate(f.String("template_id"), f.String("case_id"), f.String("filename"), user)
	if err != nil {
		if !isNotFound(err) {
			slog.Error("failed to generate from template", "error", err, "template_id", f.String("template_id"), "case_id", f.String("case_id"))
		}
		f.AddError("", "Generation failed: "+err.Error())
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.TemplateGeneratePage(f))
		return
	}

	slog.Info("document generated from template", "document_id", doc.ID, "template_id", f.String("template_id"))
	ui.Redirect(w, r, "/documents/"+doc.ID)
}

// PreviewSlug renders the body resolved for a document type without saving.
func (h *DocumentHandler) PreviewSlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	user := ctxkeys.User(r.Context())

	rendered, resolved, err := h.documentService.PreviewSlug(slug, r.URL.Query().Get("case_id"), user)
	if err != nil && resolved == nil {
		fail(w, r, "failed to preview template", err, "slug", slug)
		return
	}
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprintf(w, "%s (%s template) failed to render:\n\n%s\n", resolved.Label, resolved.Source, err)
		return
	}

	w.Header().Set("X-Template-Source", resolved.Source)
	writeDocument(w, []byte(rendered))
}

// generate runs a batch and folds the slugs rejected by the form into its
// failures.
func generate(documents *service.DocumentService, caseID string, slugs []string, rejected []service.Failure, user *model.User) (*service.BatchResult, error) {
	result := &service.BatchResult{}
	var err error
	if len(slugs) > 0 {
		var res *service.BatchResult
		res, err = documents.GenerateForCase(caseID, slugs, user)
		if res != nil {
			result = res
		}
	}
	result.Failures = append(rejected, result.Failures...)
	return result, err
}

// pushResult queues toasts describing a generation run.
func pushResult(r *http.Request, result *service.BatchResult, err error) *http.Request {
	if err != nil {
		if errors.Is(err, service.ErrBatchCommit) {
			return toast.Push(r, toast.Error("Nothing saved", "The generated documents could not be saved. Try again."))
		}
		slog.Error("document generation failed", "error", err)
		return toast.Push(r, toast.Error("Generation failed", "Documents could not be generated."))
	}

	if n := len(result.Documents); n > 0 {
		r = toast.Push(r, toast.Success("Documents generated", fmt.Sprintf("%d document(s) created.", n)))
	}
	for _, f := range result.Failures {
		r = toast.Push(r, toast.Error(f.Label, f.Err.Error()))
	}
	return r
}
