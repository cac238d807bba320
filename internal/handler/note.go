package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("id")
	user := ctxkeys.User(r.Context())

	_, err := h.noteService.Add(caseID, r.FormValue("body"), user)
	if errors.Is(err, service.ErrValidation) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		fail(w, r, "failed to add note", err, "case_id", caseID)
		return
	}

	slog.Info("note added", "case_id", caseID)
	ui.Redirect(w, r, "/cases/"+caseID)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.noteService.Delete(id)
	if err != nil {
		fail(w, r, "failed to delete note", err, "note_id", id)
		return
	}

	ui.Redirect(w, r, backTo(r, "/cases"))
}
