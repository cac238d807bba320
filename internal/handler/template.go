package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.Templates()
	if err != nil {
		fail(w, r, "failed to list templates", err)
		return
	}

	ui.Render(w, r, pages.TemplateList(templates))
}

func (h *TemplateHandler) New(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.FormPage("New template", "/documents/templates", "Save", service.TemplateForm(nil), "/documents/templates"))
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	f := service.TemplateForm(nil)
	bind(r, f)

	t, err := h.templateService.Create(f)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("New template", "/documents/templates", "Save", f, "/documents/templates"))
		return
	}
	if err != nil {
		fail(w, r, "failed to create template", err)
		return
	}

	slog.Info("template created", "template_id", t.ID, "name", t.Name)
	ui.Redirect(w, r, "/documents/templates")
}

func (h *TemplateHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	t, err := h.templateService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load template", err, "template_id", id)
		return
	}

	action := "/documents/templates/" + id + "/edit"
	ui.Render(w, r, pages.FormPage("Edit template", action, "Save", service.TemplateForm(t), "/documents/templates"))
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f := service.TemplateForm(nil)
	bind(r, f)

	_, err := h.templateService.Update(id, f)
	if errors.Is(err, service.ErrValidation) {
		action := "/documents/templates/" + id + "/edit"
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("Edit template", action, "Save", f, "/documents/templates"))
		return
	}
	if err != nil {
		fail(w, r, "failed to update template", err, "template_id", id)
		return
	}

	ui.Redirect(w, r, "/documents/templates")
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.templateService.Delete(id)
	if err != nil {
		fail(w, r, "failed to delete template", err, "template_id", id)
		return
	}

	slog.Info("template deleted", "template_id", id)
	ui.Redirect(w, r, "/documents/templates")
}
