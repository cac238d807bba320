package repository

import (
	"database/sql"
	"errors"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrDuplicateClientEmail = errors.New("client email already exists")
)

type ClientRepository interface {
	Create(client *model.Client) error
	ByID(id string) (*model.Client, error)
	Clients(search string) ([]*model.Client, error)
	Update(client *model.Client) error
	Delete(id string) error
}

type clientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(client *model.Client) error {
	query := `INSERT INTO clients (id, name, email, phone, address, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.Notes,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateClientEmail
	}
	return err
}

func (r *clientRepository) ByID(id string) (*model.Client, error) {
	client := &model.Client{}
	query := `SELECT * FROM clients WHERE id = $1`

	err := r.db.Get(client, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}

	return client, err
}

// Clients lists clients by name, optionally filtered by a name/email substring.
func (r *clientRepository) Clients(search string) ([]*model.Client, error) {
	var clients []*model.Client
	query := `SELECT * FROM clients
	          WHERE $1 = '' OR LOWER(name) LIKE $2 ESCAPE '\' OR LOWER(email) LIKE $2 ESCAPE '\'
	          ORDER BY name ASC`

	err := r.db.Select(&clients, query, search, containsPattern(search))
	if err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) Update(client *model.Client) error {
	query := `UPDATE clients
	          SET name = $1, email = $2, phone = $3, address = $4, notes = $5, updated_at = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.Notes,
		client.UpdatedAt,
		client.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateClientEmail
	}
	if err != nil {
		return err
	}

	return expectRow(result, ErrClientNotFound)
}

func (r *clientRepository) Delete(id string) error {
	query := `DELETE FROM clients WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrClientNotFound)
}
