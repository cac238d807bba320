package model

import (
	"time"
)

// Document is a generated or stored file attached to a case.
// Filepath is relative to the project root and always slash separated.
type Document struct {
	ID           string     `db:"id"`
	Filename     string     `db:"filename"`
	Filepath     string     `db:"filepath"`
	DocType      string     `db:"doc_type"`
	CaseID       *string    `db:"case_id"`
	ClientID     *string    `db:"client_id"`
	UploadedAt   time.Time  `db:"uploaded_at"`
	LastViewedAt *time.Time `db:"last_viewed_at"`
}

// DocumentListItem is a document joined with its case and client names.
type DocumentListItem struct {
	Document
	CaseStyle  *string `db:"case_style"`
	CaseNumber *string `db:"case_number"`
	ClientName *string `db:"client_name"`
}

const (
	DocumentSortRecentlyAdded  = "recently_added"
	DocumentSortRecentlyViewed = "recently_viewed"
	DocumentSortName           = "name_alpha"
	DocumentSortCase           = "case_alpha"
	DocumentSortClient         = "client_alpha"
)
