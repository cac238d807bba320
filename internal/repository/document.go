package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

type DocumentRepository interface {
	Create(doc *model.Document) error
	ByID(id string) (*model.Document, error)
	ByCase(caseID string) ([]*model.Document, error)
	Documents(sortBy string) ([]*model.DocumentListItem, error)
	Filepaths() (map[string]bool, error)
	MarkViewed(id string, at time.Time) error
	Delete(id string) error
}

type documentRepository struct {
	db DBTX
}

func NewDocumentRepository(db DBTX) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *model.Document) error {
	query := `INSERT INTO documents (id, filename, filepath, doc_type, case_id, client_id, uploaded_at, last_viewed_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		doc.ID,
		doc.Filename,
		doc.Filepath,
		doc.DocType,
		doc.CaseID,
		doc.ClientID,
		doc.UploadedAt,
		doc.LastViewedAt,
	)

	return err
}

func (r *documentRepository) ByID(id string) (*model.Document, error) {
	doc := &model.Document{}
	query := `SELECT * FROM documents WHERE id = $1`

	err := r.db.Get(doc, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}

	return doc, err
}

func (r *documentRepository) ByCase(caseID string) ([]*model.Document, error) {
	var docs []*model.Document
	query := `SELECT * FROM documents WHERE case_id = $1 ORDER BY uploaded_at DESC, id ASC`

	err := r.db.Select(&docs, query, caseID)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

var documentOrder = map[string]string{
	model.DocumentSortRecentlyAdded:  `d.uploaded_at DESC, d.id ASC`,
	model.DocumentSortRecentlyViewed: `CASE WHEN d.last_viewed_at IS NULL THEN 1 ELSE 0 END, d.last_viewed_at DESC, d.uploaded_at DESC`,
	model.DocumentSortName:           `LOWER(d.filename) ASC`,
	model.DocumentSortCase:           `CASE WHEN c.style IS NULL THEN 1 ELSE 0 END, LOWER(c.style) ASC, d.uploaded_at DESC`,
	model.DocumentSortClient:         `CASE WHEN cl.name IS NULL THEN 1 ELSE 0 END, LOWER(cl.name) ASC, d.uploaded_at DESC`,
}

// Documents lists all documents with case and client names. Unknown sort
// keys fall back to most recently added.
func (r *documentRepository) Documents(sortBy string) ([]*model.DocumentListItem, error) {
	order, ok := documentOrder[sortBy]
	if !ok {
		order = documentOrder[model.DocumentSortRecentlyAdded]
	}

	var docs []*model.DocumentListItem
	query := `SELECT d.*, c.style AS case_style, c.case_number AS case_number, cl.name AS client_name
	          FROM documents d
	          LEFT JOIN cases c ON c.id = d.case_id
	          LEFT JOIN clients cl ON cl.id = d.client_id
	          ORDER BY ` + order

	err := r.db.Select(&docs, query)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// Filepaths returns the set of stored paths referenced by any document.
func (r *documentRepository) Filepaths() (map[string]bool, error) {
	var paths []string
	query := `SELECT filepath FROM documents`

	err := r.db.Select(&paths, query)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set, nil
}

func (r *documentRepository) MarkViewed(id string, at time.Time) error {
	query := `UPDATE documents SET last_viewed_at = $1 WHERE id = $2`

	result, err := r.db.Exec(query, at, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrDocumentNotFound)
}

func (r *documentRepository) Delete(id string) error {
	query := `DELETE FROM documents WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrDocumentNotFound)
}
