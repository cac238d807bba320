package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx, so every repository can
// run inside or outside a transaction.
type DBTX interface {
	sqlx.Ext
	Get(dest any, query string, args ...any) error
	Select(dest any, query string, args ...any) error
}

// Repositories is one set of repositories bound to the same DBTX.
type Repositories struct {
	Users             UserRepository
	Clients           ClientRepository
	Cases             CaseRepository
	Documents         DocumentRepository
	Templates         TemplateRepository
	CustomFields      CustomFieldRepository
	CustomFieldValues CustomFieldValueRepository
	Notes             NoteRepository
	Events            CalendarEventRepository
	People            PersonRepository
}

func newRepositories(q DBTX) *Repositories {
	return &Repositories{
		Users:             NewUserRepository(q),
		Clients:           NewClientRepository(q),
		Cases:             NewCaseRepository(q),
		Documents:         NewDocumentRepository(q),
		Templates:         NewTemplateRepository(q),
		CustomFields:      NewCustomFieldRepository(q),
		CustomFieldValues: NewCustomFieldValueRepository(q),
		Notes:             NewNoteRepository(q),
		Events:            NewCalendarEventRepository(q),
		People:            NewPersonRepository(q),
	}
}

// Store hands out repositories bound to the pool and runs transactional
// units of work.
type Store struct {
	*Repositories
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		Repositories: newRepositories(db),
		db:           db,
	}
}

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits only if fn returns nil. Inside fn, use only the
// repositories passed in.
func (s *Store) InTx(fn func(tx *Repositories) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = fn(newRepositories(tx))
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation matches unique constraint errors from SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

// expectRow maps a write that touched no rows to notFound.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern matching s anywhere.
// Use with LOWER(column) LIKE $n ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// sqlxIn expands slice arguments for IN clauses and rebinds to the
// driver's placeholder style.
func sqlxIn(db DBTX, query string, args ...any) (string, []any, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return db.Rebind(query), args, nil
}
