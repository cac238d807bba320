package handler

import (
	"errors"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.calendarService.Upcoming()
	if err != nil {
		fail(w, r, "failed to list events", err)
		return
	}

	ui.Render(w, r, pages.Calendar(events))
}

func (h *CalendarHandler) New(w http.ResponseWriter, r *http.Request) {
	f, err := h.calendarService.EventForm(r.URL.Query().Get("case_id"))
	if err != nil {
		fail(w, r, "failed to build event form", err)
		return
	}

	ui.Render(w, r, pages.FormPage("New event", "/calendar", "Save", f, "/calendar"))
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	f, err := h.calendarService.EventForm("")
	if err != nil {
		fail(w, r, "failed to build event form", err)
		return
	}
	bind(r, f)

	event, err := h.calendarService.Create(f, user)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("New event", "/calendar", "Save", f, "/calendar"))
		return
	}
	if err != nil {
		fail(w, r, "failed to create event", err)
		return
	}

	if event.CaseID != nil {
		ui.Redirect(w, r, "/cases/"+*event.CaseID)
		return
	}
	ui.Redirect(w, r, "/calendar")
}

func (h *CalendarHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, err := h.calendarService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load event", err, "event_id", id)
		return
	}

	f, err := h.calendarService.EditForm(event)
	if err != nil {
		fail(w, r, "failed to build event form", err, "event_id", id)
		return
	}

	ui.Render(w, r, pages.FormPage("Edit event", "/calendar/"+id, "Save", f, "/calendar"))
}

func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f, err := h.calendarService.EventForm("")
	if err != nil {
		fail(w, r, "failed to build event form", err, "event_id", id)
		return
	}
	bind(r, f)

	event, err := h.calendarService.Update(id, f)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.FormPage("Edit event", "/calendar/"+id, "Save", f, "/calendar"))
		return
	}
	if err != nil {
		fail(w, r, "failed to update event", err, "event_id", id)
		return
	}

	if event.CaseID != nil {
		ui.Redirect(w, r, "/cases/"+*event.CaseID)
		return
	}
	ui.Redirect(w, r, "/calendar")
}

func (h *CalendarHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.calendarService.Complete(id)
	if err != nil {
		fail(w, r, "failed to complete event", err, "event_id", id)
		return
	}

	ui.Redirect(w, r, backTo(r, "/calendar"))
}

func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.calendarService.Delete(id)
	if err != nil {
		fail(w, r, "failed to delete event", err, "event_id", id)
		return
	}

	ui.Redirect(w, r, backTo(r, "/calendar"))
}
