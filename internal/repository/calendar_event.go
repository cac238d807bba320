package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lexdesk/lexdesk/internal/model"
)

var (
	ErrEventNotFound = errors.New("calendar event not found")
)

type CalendarEventRepository interface {
	Create(event *model.CalendarEvent) error
	ByID(id string) (*model.CalendarEvent, error)
	// Upcoming returns incomplete events starting at or after from, soonest first.
	Upcoming(from time.Time, limit int) ([]*model.CalendarEvent, error)
	ByCase(caseID string) ([]*model.CalendarEvent, error)
	Update(event *model.CalendarEvent) error
	SetCompleted(id string, completed bool) error
	Delete(id string) error
}

type calendarEventRepository struct {
	db DBTX
}

func NewCalendarEventRepository(db DBTX) CalendarEventRepository {
	return &calendarEventRepository{db: db}
}

func (r *calendarEventRepository) Create(event *model.CalendarEvent) error {
	query := `INSERT INTO calendar_events (id, name, starts_at, duration, deadline, completed, case_id,
	          client_id, document_id, user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		event.ID,
		event.Name,
		event.StartsAt,
		event.Duration,
		event.Deadline,
		event.Completed,
		event.CaseID,
		event.ClientID,
		event.DocumentID,
		event.UserID,
		event.CreatedAt,
	)

	return err
}

func (r *calendarEventRepository) ByID(id string) (*model.CalendarEvent, error) {
	event := &model.CalendarEvent{}
	query := `SELECT * FROM calendar_events WHERE id = $1`

	err := r.db.Get(event, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}

	return event, err
}

func (r *calendarEventRepository) Upcoming(from time.Time, limit int) ([]*model.CalendarEvent, error) {
	var events []*model.CalendarEvent
	query := `SELECT * FROM calendar_events
	          WHERE completed = $1 AND starts_at >= $2
	          ORDER BY starts_at ASC
	          LIMIT $3`

	err := r.db.Select(&events, query, false, from, limit)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *calendarEventRepository) ByCase(caseID string) ([]*model.CalendarEvent, error) {
	var events []*model.CalendarEvent
	query := `SELECT * FROM calendar_events WHERE case_id = $1 ORDER BY starts_at ASC`

	err := r.db.Select(&events, query, caseID)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *calendarEventRepository) Update(event *model.CalendarEvent) error {
	query := `UPDATE calendar_events
	          SET name = $1, starts_at = $2, duration = $3, deadline = $4, case_id = $5, client_id = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query,
		event.Name,
		event.StartsAt,
		event.Duration,
		event.Deadline,
		event.CaseID,
		event.ClientID,
		event.ID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrEventNotFound)
}

func (r *calendarEventRepository) SetCompleted(id string, completed bool) error {
	query := `UPDATE calendar_events SET completed = $1 WHERE id = $2`

	result, err := r.db.Exec(query, completed, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrEventNotFound)
}

func (r *calendarEventRepository) Delete(id string) error {
	query := `DELETE FROM calendar_events WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrEventNotFound)
}
