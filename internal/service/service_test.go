package service

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/lexdesk/internal/markdown"
	"github.com/lexdesk/lexdesk/internal/render"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/storage"
	"github.com/lexdesk/lexdesk/internal/testutil"
)

const testUploadDir = "uploads/documents"

type testEnv struct {
	db           *sqlx.DB
	store        *repository.Store
	files        *storage.LocalStorage
	root         string
	customFields *CustomFieldService
	cases        *CaseService
	templates    *TemplateService
	documents    *DocumentService
}

func newTestEnv(t *testing.T, now Clock) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	files, root := testutil.NewStorage(t)

	customFields := NewCustomFieldService(store, now)
	templates := NewTemplateService(store.Templates, now)
	email := NewEmailService("", "office@example.com", "http://localhost:8080", "Lexdesk", true)

	return &testEnv{
		db:           db,
		store:        store,
		files:        files,
		root:         root,
		customFields: customFields,
		cases:        NewCaseService(store, customFields, now),
		templates:    templates,
		documents: NewDocumentService(store, files, render.New(markdown.NewParser()), templates, customFields, email, DocumentServiceConfig{
			UploadDir: testUploadDir,
			AppURL:    "http://localhost:8080",
			Now:       now,
		}),
	}
}
