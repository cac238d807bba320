package repository

import (
	"database/sql"
	"errors"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrCustomFieldNotFound = errors.New("custom field not found")
	ErrDuplicateFieldSlug  = errors.New("custom field slug already exists")
)

type CustomFieldRepository interface {
	Create(field *model.CustomField) error
	ByID(id string) (*model.CustomField, error)
	BySlug(slug string) (*model.CustomField, error)
	// Visible returns the visible fields of a target in display order.
	Visible(target string) ([]*model.CustomField, error)
	All() ([]*model.CustomField, error)
	Update(field *model.CustomField) error
	SetVisible(id string, visible bool) error
}

type customFieldRepository struct {
	db DBTX
}

func NewCustomFieldRepository(db DBTX) CustomFieldRepository {
	return &customFieldRepository{db: db}
}

func (r *customFieldRepository) Create(field *model.CustomField) error {
	query := `INSERT INTO custom_fields (id, name, slug, label, target, field_type, options, required,
	          help_text, sort_order, visible, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(query,
		field.ID,
		field.Name,
		field.Slug,
		field.Label,
		field.Target,
		field.FieldType,
		field.Options,
		field.Required,
		field.HelpText,
		field.SortOrder,
		field.Visible,
		field.CreatedAt,
		field.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateFieldSlug
	}
	return err
}

func (r *customFieldRepository) ByID(id string) (*model.CustomField, error) {
	field := &model.CustomField{}
	query := `SELECT * FROM custom_fields WHERE id = $1`

	err := r.db.Get(field, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCustomFieldNotFound
	}

	return field, err
}

func (r *customFieldRepository) BySlug(slug string) (*model.CustomField, error) {
	field := &model.CustomField{}
	query := `SELECT * FROM custom_fields WHERE slug = $1`

	err := r.db.Get(field, query, slug)
	if err == sql.ErrNoRows {
		return nil, ErrCustomFieldNotFound
	}

	return field, err
}

func (r *customFieldRepository) Visible(target string) ([]*model.CustomField, error) {
	var fields []*model.CustomField
	query := `SELECT * FROM custom_fields
	          WHERE target = $1 AND visible = $2
	          ORDER BY sort_order ASC, created_at ASC, id ASC`

	err := r.db.Select(&fields, query, target, true)
	if err != nil {
		return nil, err
	}

	return fields, nil
}

func (r *customFieldRepository) All() ([]*model.CustomField, error) {
	var fields []*model.CustomField
	query := `SELECT * FROM custom_fields ORDER BY target ASC, sort_order ASC, created_at ASC, id ASC`

	err := r.db.Select(&fields, query)
	if err != nil {
		return nil, err
	}

	return fields, nil
}

func (r *customFieldRepository) Update(field *model.CustomField) error {
	query := `UPDATE custom_fields
	          SET name = $1, slug = $2, label = $3, target = $4, field_type = $5, options = $6,
	              required = $7, help_text = $8, sort_order = $9, visible = $10, updated_at = $11
	          WHERE id = $12`

	result, err := r.db.Exec(query,
		field.Name,
		field.Slug,
		field.Label,
		field.Target,
		field.FieldType,
		field.Options,
		field.Required,
		field.HelpText,
		field.SortOrder,
		field.Visible,
		field.UpdatedAt,
		field.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateFieldSlug
	}
	if err != nil {
		return err
	}

	return expectRow(result, ErrCustomFieldNotFound)
}

func (r *customFieldRepository) SetVisible(id string, visible bool) error {
	query := `UPDATE custom_fields SET visible = $1 WHERE id = $2`

	result, err := r.db.Exec(query, visible, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrCustomFieldNotFound)
}
