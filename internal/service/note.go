package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/markdown"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/validation"
)

type NoteService struct {
	store *repository.Store
	md    *markdown.Parser
	now   Clock
}

func NewNoteService(store *repository.Store, md *markdown.Parser, now Clock) *NoteService {
	if now == nil {
		now = utcNow
	}
	return &NoteService{
		store: store,
		md:    md,
		now:   now,
	}
}

// Add attaches a note to a case. user may be nil.
func (s *NoteService) Add(caseID, body string, user *model.User) (*model.Note, error) {
	_, err := s.store.Cases.ByID(caseID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateRequired("note", body, 10000)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	note := &model.Note{
		ID:        uuid.New().String(),
		CaseID:    &caseID,
		Body:      body,
		CreatedAt: s.now(),
	}
	if user != nil {
		note.UserID = &user.ID
		note.AuthorName = user.Name
	}

	err = s.store.Notes.Create(note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

func (s *NoteService) Delete(id string) error {
	return s.store.Notes.Delete(id)
}

// HTML renders a note body as markdown. Raw HTML in the body is dropped.
func (s *NoteService) HTML(note *model.Note) string {
	out, err := s.md.Parse([]byte(note.Body))
	if err != nil {
		return ""
	}
	return string(out)
}
