package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

type CustomFieldHandler struct {
	customFieldService *service.CustomFieldService
}

func NewCustomFieldHandler(customFieldService *service.CustomFieldService) *CustomFieldHandler {
	return &CustomFieldHandler{
		customFieldService: customFieldService,
	}
}

const customFieldsPath = "/admin/custom-fields"

func (h *CustomFieldHandler) List(w http.ResponseWriter, r *http.Request) {
	fields, err := h.customFieldService.All()
	if err != nil {
		fail(w, r, "failed to list custom fields", err)
		return
	}

	ui.Render(w, r, pages.CustomFieldList(fields))
}

func (h *CustomFieldHandler) New(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.FormPage("New custom field", customFieldsPath, "Save", service.DefinitionForm(nil), customFieldsPath))
}

func (h *CustomFieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	f := service.DefinitionForm(nil)
	bind(r, f)

	def, err := h.customFieldService.Create(f)
	if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrDuplicateSlug) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("New custom field", customFieldsPath, "Save", f, customFieldsPath))
		return
	}
	if err != nil {
		fail(w, r, "failed to create custom field", err)
		return
	}

	slog.Info("custom field created", "field_id", def.ID, "slug", def.Slug, "target", def.Target)
	ui.Redirect(w, r, customFieldsPath)
}

func (h *CustomFieldHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	def, err := h.customFieldService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load custom field", err, "field_id", id)
		return
	}

	action := customFieldsPath + "/" + id
	ui.Render(w, r, pages.FormPage("Edit custom field", action, "Save", service.DefinitionForm(def), customFieldsPath))
}

func (h *CustomFieldHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f := service.DefinitionForm(nil)
	bind(r, f)

	_, err := h.customFieldService.Update(id, f)
	if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrDuplicateSlug) {
		action := customFieldsPath + "/" + id
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("Edit custom field", action, "Save", f, customFieldsPath))
		return
	}
	if err != nil {
		fail(w, r, "failed to update custom field", err, "field_id", id)
		return
	}

	ui.Redirect(w, r, customFieldsPath)
}

// Toggle flips visibility. Definitions are hidden rather than deleted so
// stored values keep their field.
func (h *CustomFieldHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	def, err := h.customFieldService.ToggleVisible(id)
	if err != nil {
		fail(w, r, "failed to toggle custom field", err, "field_id", id)
		return
	}

	slog.Info("custom field visibility changed", "field_id", def.ID, "visible", def.Visible)
	ui.Redirect(w, r, customFieldsPath)
}
