package repository

import (
	"database/sql"
	"errors"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrPersonNotFound  = errors.New("person not found")
	ErrDuplicatePerson = errors.New("person email or phone already exists")
)

type PersonRepository interface {
	Create(person *model.Person) error
	ByID(id string) (*model.Person, error)
	People(search string) ([]*model.Person, error)
	Update(person *model.Person) error
	Delete(id string) error
}

type personRepository struct {
	db DBTX
}

func NewPersonRepository(db DBTX) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(person *model.Person) error {
	query := `INSERT INTO people (id, name, email, phone, address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		person.ID,
		person.Name,
		person.Email,
		person.Phone,
		person.Address,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePerson
	}
	return err
}

func (r *personRepository) ByID(id string) (*model.Person, error) {
	person := &model.Person{}
	query := `SELECT * FROM people WHERE id = $1`

	err := r.db.Get(person, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPersonNotFound
	}

	return person, err
}

// People lists people by name, optionally filtered by a name, email or
// phone substring.
func (r *personRepository) People(search string) ([]*model.Person, error) {
	var people []*model.Person
	query := `SELECT * FROM people
	          WHERE $1 = ''
	             OR LOWER(name) LIKE $2 ESCAPE '\'
	             OR LOWER(COALESCE(email, '')) LIKE $2 ESCAPE '\'
	             OR COALESCE(phone, '') LIKE $2 ESCAPE '\'
	          ORDER BY name ASC`

	err := r.db.Select(&people, query, search, containsPattern(search))
	if err != nil {
		return nil, err
	}

	return people, nil
}

func (r *personRepository) Update(person *model.Person) error {
	query := `UPDATE people
	          SET name = $1, email = $2, phone = $3, address = $4, updated_at = $5
	          WHERE id = $6`

	result, err := r.db.Exec(query,
		person.Name,
		person.Email,
		person.Phone,
		person.Address,
		person.UpdatedAt,
		person.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePerson
	}
	if err != nil {
		return err
	}

	return expectRow(result, ErrPersonNotFound)
}

func (r *personRepository) Delete(id string) error {
	query := `DELETE FROM people WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrPersonNotFound)
}
