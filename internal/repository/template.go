package repository

import (
	"database/sql"
	"errors"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
)

type TemplateRepository interface {
	Create(t *model.Template) error
	ByID(id string) (*model.Template, error)
	Templates() ([]*model.Template, error)
	// MatchName returns the most recently updated template whose name
	// contains needle, case-insensitively.
	MatchName(needle string) (*model.Template, error)
	Update(t *model.Template) error
	Delete(id string) error
}

type templateRepository struct {
	db DBTX
}

func NewTemplateRepository(db DBTX) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(t *model.Template) error {
	query := `INSERT INTO templates (id, name, content, format, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, t.ID, t.Name, t.Content, t.Format, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *templateRepository) ByID(id string) (*model.Template, error) {
	t := &model.Template{}
	query := `SELECT * FROM templates WHERE id = $1`

	err := r.db.Get(t, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}

	return t, err
}

func (r *templateRepository) Templates() ([]*model.Template, error) {
	var templates []*model.Template
	query := `SELECT * FROM templates ORDER BY name ASC`

	err := r.db.Select(&templates, query)
	if err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *templateRepository) MatchName(needle string) (*model.Template, error) {
	t := &model.Template{}
	query := `SELECT * FROM templates
	          WHERE LOWER(name) LIKE $1 ESCAPE '\'
	          ORDER BY updated_at DESC, id ASC
	          LIMIT 1`

	err := r.db.Get(t, query, containsPattern(needle))
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}

	return t, err
}

func (r *templateRepository) Update(t *model.Template) error {
	query := `UPDATE templates SET name = $1, content = $2, format = $3, updated_at = $4 WHERE id = $5`

	result, err := r.db.Exec(query, t.Name, t.Content, t.Format, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrTemplateNotFound)
}

func (r *templateRepository) Delete(id string) error {
	query := `DELETE FROM templates WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrTemplateNotFound)
}
