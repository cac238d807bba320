// Package testutil provides migrated SQLite databases and on-disk storage
// for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/lexdesk/internal/db"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/storage"
)

// Now is the fixed time returned by Clock.
var Now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// Clock always returns Now.
func Clock() time.Time {
	return Now
}

// NewDB opens a fresh SQLite database in a temp dir and migrates it.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return database
}

func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(NewDB(t))
}

// NewStorage returns local storage rooted at a temp dir, and the dir.
func NewStorage(t *testing.T) (*storage.LocalStorage, string) {
	t.Helper()

	root := t.TempDir()
	s, err := storage.NewLocalStorage(root, "/files")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return s, root
}

// CreateClient inserts a client.
func CreateClient(t *testing.T, store *repository.Store, name, email string) *model.Client {
	t.Helper()

	client := &model.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: Now,
		UpdatedAt: Now,
	}
	err := store.Clients.Create(client)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// CreateCase inserts an open case, linked to client when it is not nil.
func CreateCase(t *testing.T, store *repository.Store, style, number, caseType string, client *model.Client) *model.Case {
	t.Helper()

	c := &model.Case{
		ID:         uuid.New().String(),
		Style:      style,
		CaseNumber: number,
		CaseType:   caseType,
		Status:     model.CaseStatusOpen,
		CreatedAt:  Now,
		UpdatedAt:  Now,
	}
	if client != nil {
		c.ClientID = &client.ID
	}
	err := store.Cases.Create(c)
	if err != nil {
		t.Fatalf("failed to create case: %v", err)
	}
	return c
}

// CreateField inserts a visible custom field definition.
func CreateField(t *testing.T, store *repository.Store, slug, target, fieldType string, required bool, options string) *model.CustomField {
	t.Helper()

	def := &model.CustomField{
		ID:        uuid.New().String(),
		Name:      slug,
		Slug:      slug,
		Label:     slug,
		Target:    target,
		FieldType: fieldType,
		Required:  required,
		SortOrder: model.DefaultFieldSortOrder,
		Visible:   true,
		CreatedAt: Now,
		UpdatedAt: Now,
	}
	if options != "" {
		def.Options = &options
	}
	err := store.CustomFields.Create(def)
	if err != nil {
		t.Fatalf("failed to create custom field: %v", err)
	}
	return def
}
