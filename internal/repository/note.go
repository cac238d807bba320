package repository

import (
	"errors"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

type NoteRepository interface {
	Create(note *model.Note) error
	ByCase(caseID string) ([]*model.Note, error)
	Delete(id string) error
}

type noteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *model.Note) error {
	query := `INSERT INTO notes (id, case_id, user_id, body, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, note.ID, note.CaseID, note.UserID, note.Body, note.CreatedAt)
	return err
}

func (r *noteRepository) ByCase(caseID string) ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT n.*, COALESCE(u.name, '') AS author_name
	          FROM notes n
	          LEFT JOIN users u ON u.id = n.user_id
	          WHERE n.case_id = $1
	          ORDER BY n.created_at DESC`

	err := r.db.Select(&notes, query, caseID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Delete(id string) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrNoteNotFound)
}
