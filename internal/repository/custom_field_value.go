package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/model"
	"gorm.io/datatypes"
)

var (
	ErrCustomFieldValueNotFound = errors.New("custom field value not found")
	ErrInvalidTarget            = errors.New("invalid custom field target")
)

// ownerColumn maps a custom field target to its owner column. Only these
// column names are ever interpolated into SQL.
var ownerColumn = map[string]string{
	model.TargetCase:   "case_id",
	model.TargetClient: "client_id",
}

func ownerColumnFor(target string) (string, error) {
	col, ok := ownerColumn[target]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	return col, nil
}

type CustomFieldValueRepository interface {
	Value(fieldID, target, ownerID string) (*model.CustomFieldValue, error)
	// Upsert writes the value for (field, owner), updating the existing row
	// if there is one.
	Upsert(fieldID, target, ownerID string, value datatypes.JSON, now time.Time) error
	// Entries returns an owner's values joined with their visible fields.
	Entries(target, ownerID string) ([]*model.CustomFieldEntry, error)
	Count(fieldID, target, ownerID string) (int, error)
}

type customFieldValueRepository struct {
	db DBTX
}

func NewCustomFieldValueRepository(db DBTX) CustomFieldValueRepository {
	return &customFieldValueRepository{db: db}
}

func (r *customFieldValueRepository) Value(fieldID, target, ownerID string) (*model.CustomFieldValue, error) {
	col, err := ownerColumnFor(target)
	if err != nil {
		return nil, err
	}

	value := &model.CustomFieldValue{}
	query := `SELECT * FROM custom_field_values WHERE field_id = $1 AND ` + col + ` = $2`

	err = r.db.Get(value, query, fieldID, ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrCustomFieldValueNotFound
	}

	return value, err
}

func (r *customFieldValueRepository) Upsert(fieldID, target, ownerID string, value datatypes.JSON, now time.Time) error {
	col, err := ownerColumnFor(target)
	if err != nil {
		return err
	}

	query := `INSERT INTO custom_field_values (id, field_id, ` + col + `, value, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (field_id, ` + col + `) DO UPDATE
	          SET value = excluded.value, updated_at = excluded.updated_at`

	_, err = r.db.Exec(query, uuid.New().String(), fieldID, ownerID, value, now, now)
	return err
}

func (r *customFieldValueRepository) Entries(target, ownerID string) ([]*model.CustomFieldEntry, error) {
	col, err := ownerColumnFor(target)
	if err != nil {
		return nil, err
	}

	var entries []*model.CustomFieldEntry
	query := `SELECT f.slug, f.label, f.field_type, f.options, v.value
	          FROM custom_field_values v
	          JOIN custom_fields f ON f.id = v.field_id
	          WHERE v.` + col + ` = $1 AND f.visible = $2
	          ORDER BY f.sort_order ASC, f.created_at ASC, f.id ASC`

	err = r.db.Select(&entries, query, ownerID, true)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *customFieldValueRepository) Count(fieldID, target, ownerID string) (int, error) {
	col, err := ownerColumnFor(target)
	if err != nil {
		return 0, err
	}

	var n int
	query := `SELECT COUNT(*) FROM custom_field_values WHERE field_id = $1 AND ` + col + ` = $2`

	err = r.db.Get(&n, query, fieldID, ownerID)
	return n, err
}
