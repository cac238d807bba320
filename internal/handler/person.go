package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

type PersonHandler struct {
	personService *service.PersonService
}

func NewPersonHandler(personService *service.PersonService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
	}
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")

	people, err := h.personService.People(search)
	if err != nil {
		fail(w, r, "failed to list people", err)
		return
	}

	ui.Render(w, r, pages.PersonList(people, search))
}

func (h *PersonHandler) New(w http.ResponseWriter, r *http.Request) {
	f := h.personService.NewForm(nil)
	ui.Render(w, r, pages.FormPage("New person", "/people", "Add person", f, "/people"))
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	f := h.personService.NewForm(nil)
	bind(r, f)

	person, err := h.personService.Create(f)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("New person", "/people", "Add person", f, "/people"))
		return
	}
	if err != nil {
		fail(w, r, "failed to create person", err)
		return
	}

	slog.Info("person created", "person_id", person.ID)
	ui.Redirect(w, r, "/people")
}

func (h *PersonHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	person, err := h.personService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load person", err, "person_id", id)
		return
	}

	f := h.personService.NewForm(person)
	ui.Render(w, r, pages.FormPage("Edit person", "/people/"+id, "Save", f, "/people"))
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f := h.personService.NewForm(nil)
	bind(r, f)

	_, err := h.personService.Update(id, f)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("Edit person", "/people/"+id, "Save", f, "/people"))
		return
	}
	if err != nil {
		fail(w, r, "failed to update person", err, "person_id", id)
		return
	}

	ui.Redirect(w, r, "/people")
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.personService.Delete(id)
	if err != nil {
		fail(w, r, "failed to delete person", err, "person_id", id)
		return
	}

	slog.Info("person deleted", "person_id", id)
	ui.Redirect(w, r, "/people")
}
