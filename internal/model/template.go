package model

import (
	"time"
)

const (
	TemplateFormatHTML     = "html"
	TemplateFormatMarkdown = "markdown"
)

// Template is an admin-authored document body. A template overrides the
// built-in body of every document type whose label appears in its name.
type Template struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Content   string    `db:"content"`
	Format    string    `db:"format"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
