package repository

import (
	"database/sql"
	"errors"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrCaseNotFound        = errors.New("case not found")
	ErrDuplicateCaseNumber = errors.New("case number already exists")
)

type CaseRepository interface {
	Create(c *model.Case) error
	ByID(id string) (*model.Case, error)
	ByIDs(ids []string) ([]*model.Case, error)
	Cases(search string) ([]*model.Case, error)
	ByClient(clientID string) ([]*model.Case, error)
	Update(c *model.Case) error
	Delete(id string) error
}

type caseRepository struct {
	db DBTX
}

func NewCaseRepository(db DBTX) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(c *model.Case) error {
	query := `INSERT INTO cases (id, style, case_number, case_type, status, client_id, judge, court, parties,
	          defendant, charges, decedent_name, estate_value, accident_location, description,
	          filed_date, retained_date, date_of_death, accident_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.db.Exec(query,
		c.ID,
		c.Style,
		c.CaseNumber,
		c.CaseType,
		c.Status,
		c.ClientID,
		c.Judge,
		c.Court,
		c.Parties,
		c.Defendant,
		c.Charges,
		c.DecedentName,
		c.EstateValue,
		c.AccidentLocation,
		c.Description,
		c.FiledDate,
		c.RetainedDate,
		c.DateOfDeath,
		c.AccidentDate,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCaseNumber
	}
	return err
}

func (r *caseRepository) ByID(id string) (*model.Case, error) {
	c := &model.Case{}
	query := `SELECT * FROM cases WHERE id = $1`

	err := r.db.Get(c, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCaseNotFound
	}

	return c, err
}

// ByIDs returns the matching cases ordered by case number. Unknown ids are skipped.
func (r *caseRepository) ByIDs(ids []string) ([]*model.Case, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlxIn(r.db, `SELECT * FROM cases WHERE id IN (?) ORDER BY case_number ASC`, ids)
	if err != nil {
		return nil, err
	}

	var cases []*model.Case
	err = r.db.Select(&cases, query, args...)
	if err != nil {
		return nil, err
	}

	return cases, nil
}

func (r *caseRepository) Cases(search string) ([]*model.Case, error) {
	var cases []*model.Case
	query := `SELECT * FROM cases
	          WHERE $1 = '' OR LOWER(style) LIKE $2 ESCAPE '\' OR LOWER(case_number) LIKE $2 ESCAPE '\'
	          ORDER BY updated_at DESC`

	err := r.db.Select(&cases, query, search, containsPattern(search))
	if err != nil {
		return nil, err
	}

	return cases, nil
}

func (r *caseRepository) ByClient(clientID string) ([]*model.Case, error) {
	var cases []*model.Case
	query := `SELECT * FROM cases WHERE client_id = $1 ORDER BY updated_at DESC`

	err := r.db.Select(&cases, query, clientID)
	if err != nil {
		return nil, err
	}

	return cases, nil
}

func (r *caseRepository) Update(c *model.Case) error {
	query := `UPDATE cases
	          SET style = $1, case_number = $2, case_type = $3, status = $4, client_id = $5, judge = $6,
	              court = $7, parties = $8, defendant = $9, charges = $10, decedent_name = $11,
	              estate_value = $12, accident_location = $13, description = $14, filed_date = $15,
	              retained_date = $16, date_of_death = $17, accident_date = $18, updated_at = $19
	          WHERE id = $20`

	result, err := r.db.Exec(query,
		c.Style,
		c.CaseNumber,
		c.CaseType,
		c.Status,
		c.ClientID,
		c.Judge,
		c.Court,
		c.Parties,
		c.Defendant,
		c.Charges,
		c.DecedentName,
		c.EstateValue,
		c.AccidentLocation,
		c.Description,
		c.FiledDate,
		c.RetainedDate,
		c.DateOfDeath,
		c.AccidentDate,
		c.UpdatedAt,
		c.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCaseNumber
	}
	if err != nil {
		return err
	}

	return expectRow(result, ErrCaseNotFound)
}

func (r *caseRepository) Delete(id string) error {
	query := `DELETE FROM cases WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrCaseNotFound)
}
