package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

type CaseHandler struct {
	caseService     *service.CaseService
	noteService     *service.NoteService
	documentService *service.DocumentService
}

func NewCaseHandler(caseService *service.CaseService, noteService *service.NoteService, documentService *service.DocumentService) *CaseHandler {
	return &CaseHandler{
		caseService:     caseService,
		noteService:     noteService,
		documentService: documentService,
	}
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")

	cases, err := h.caseService.Cases(search)
	if err != nil {
		fail(w, r, "failed to list cases", err)
		return
	}

	ui.Render(w, r, pages.CaseList(cases, search))
}

func (h *CaseHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	detail, err := h.caseService.Detail(id)
	if err != nil {
		fail(w, r, "failed to load case", err, "case_id", id)
		return
	}

	ui.Render(w, r, pages.CaseDetail(detail, h.noteService.HTML))
}

func (h *CaseHandler) New(w http.ResponseWriter, r *http.Request) {
	cf, err := h.caseService.NewForm(nil)
	if err != nil {
		fail(w, r, "failed to build case form", err)
		return
	}
	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		cf.Field("client_id").Set(clientID)
	}

	ui.Render(w, r, pages.CaseFormPage("New case", "/cases", cf))
}

func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	cf, err := h.caseService.NewForm(nil)
	if err != nil {
		fail(w, r, "failed to build case form", err)
		return
	}
	bind(r, cf.Form)

	c, err := h.caseService.Create(cf)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.CaseFormPage("New case", "/cases", cf))
		return
	}
	if err != nil {
		fail(w, r, "failed to create case", err)
		return
	}

	slog.Info("case created", "case_id", c.ID, "case_number", c.CaseNumber)
	ui.Redirect(w, r, "/cases/"+c.ID)
}

func (h *CaseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c, err := h.caseService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load case", err, "case_id", id)
		return
	}

	cf, err := h.caseService.NewForm(c)
	if err != nil {
		fail(w, r, "failed to build case form", err, "case_id", id)
		return
	}

	ui.Render(w, r, pages.CaseFormPage("Edit case", "/cases/"+id, cf))
}

func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c, err := h.caseService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load case", err, "case_id", id)
		return
	}

	cf, err := h.caseService.NewForm(c)
	if err != nil {
		fail(w, r, "failed to build case form", err, "case_id", id)
		return
	}
	bind(r, cf.Form)

	_, err = h.caseService.Update(id, cf)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.CaseFormPage("Edit case", "/cases/"+id, cf))
		return
	}
	if err != nil {
		fail(w, r, "failed to update case", err, "case_id", id)
		return
	}

	ui.Redirect(w, r, "/cases/"+id)
}

func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.caseService.Delete(id)
	if err != nil {
		fail(w, r, "failed to delete case", err, "case_id", id)
		return
	}

	slog.Info("case deleted", "case_id", id)
	ui.Redirect(w, r, "/cases")
}

func (h *CaseHandler) GeneratePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c, err := h.caseService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load case", err, "case_id", id)
		return
	}

	ui.Render(w, r, pages.GeneratePage(c, service.CaseGenerateForm(c), nil))
}

// Generate creates the selected document types for the case. Per-type
// failures are listed next to the generated documents.
func (h *CaseHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	user := ctxkeys.User(r.Context())

	c, err := h.caseService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load case", err, "case_id", id)
		return
	}

	f := service.CaseGenerateForm(c)
	bind(r, f.Form)

	slugs, rejected, ok := f.Slugs()
	if !ok {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.GeneratePage(c, f, nil))
		return
	}

	result, err := generate(h.documentService, c.ID, slugs, rejected, user)
	r = pushResult(r, result, err)

	ui.Render(w, r, pages.GeneratePage(c, f, result))
}
