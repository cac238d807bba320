package model

import (
	"time"
)

type CalendarEvent struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	StartsAt   time.Time `db:"starts_at"`
	Duration   string    `db:"duration"`
	Deadline   bool      `db:"deadline"`
	Completed  bool      `db:"completed"`
	CaseID     *string   `db:"case_id"`
	ClientID   *string   `db:"client_id"`
	DocumentID *string   `db:"document_id"`
	UserID     *string   `db:"user_id"`
	CreatedAt  time.Time `db:"created_at"`
}
