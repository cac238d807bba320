package model

import (
	"time"
)

type Note struct {
	ID        string    `db:"id"`
	CaseID    *string   `db:"case_id"`
	UserID    *string   `db:"user_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`

	// Computed fields (not in database)
	AuthorName string `db:"author_name"`
}
