package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
)

const upcomingLimit = 50

type CalendarService struct {
	store *repository.Store
	now   Clock
}

func NewCalendarService(store *repository.Store, now Clock) *CalendarService {
	if now == nil {
		now = utcNow
	}
	return &CalendarService{
		store: store,
		now:   now,
	}
}

// Upcoming lists incomplete events from the start of today, soonest first.
func (s *CalendarService) Upcoming() ([]*model.CalendarEvent, error) {
	return s.store.Events.Upcoming(dateOnly(s.now()), upcomingLimit)
}

// EventForm is the event form. Case choices come from existing cases.
func (s *CalendarService) EventForm(caseID string) (*form.Form, error) {
	cases, err := s.store.Cases.Cases("")
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	caseChoices := make([]model.Choice, 0, len(cases))
	for _, c := range cases {
		caseChoices = append(caseChoices, model.Choice{Value: c.ID, Label: c.Style + " (" + c.CaseNumber + ")"})
	}

	f := form.New(
		form.Text("name", "Name").Require(),
		form.Date("date", "Date").Require(),
		form.Text("time", "Time").Help("24-hour, e.g. 14:30"),
		form.Text("duration", "Duration").Help("e.g. 1 hour"),
		form.Boolean("deadline", "Deadline"),
		form.Select("case_id", "Case", caseChoices).WithBlank(),
	)
	if caseID != "" {
		f.Field("case_id").Set(caseID)
	}
	return f, nil
}

// EditForm is the event form filled from event.
func (s *CalendarService) EditForm(event *model.CalendarEvent) (*form.Form, error) {
	f, err := s.EventForm("")
	if err != nil {
		return nil, err
	}

	f.Field("name").Set(event.Name)
	f.Field("date").Set(dateOnly(event.StartsAt))
	if clock := event.StartsAt.UTC().Format("15:04"); clock != "00:00" {
		f.Field("time").Set(clock)
	}
	f.Field("duration").Set(event.Duration)
	f.Field("deadline").Set(event.Deadline)
	if event.CaseID != nil {
		f.Field("case_id").Set(*event.CaseID)
	}
	return f, nil
}

func (s *CalendarService) ByID(id string) (*model.CalendarEvent, error) {
	return s.store.Events.ByID(id)
}

func (s *CalendarService) Create(f *form.Form, user *model.User) (*model.CalendarEvent, error) {
	event := &model.CalendarEvent{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
	}
	if user != nil {
		event.UserID = &user.ID
	}

	err := s.apply(f, event)
	if err != nil {
		return nil, err
	}

	err = s.store.Events.Create(event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// Update rewrites the event's schedule and links. Completion and the
// creating user are kept.
func (s *CalendarService) Update(id string, f *form.Form) (*model.CalendarEvent, error) {
	event, err := s.store.Events.ByID(id)
	if err != nil {
		return nil, err
	}

	err = s.apply(f, event)
	if err != nil {
		return nil, err
	}

	err = s.store.Events.Update(event)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// apply copies a valid form onto event. The client follows the linked case.
func (s *CalendarService) apply(f *form.Form, event *model.CalendarEvent) error {
	if !f.Valid() {
		return ErrValidation
	}

	startsAt := *f.Field("date").Time()
	if clock := f.String("time"); clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			f.AddError("time", "Not a valid time value.")
			return ErrValidation
		}
		startsAt = startsAt.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	}

	event.Name = f.String("name")
	event.StartsAt = startsAt
	event.Duration = f.String("duration")
	event.Deadline, _ = f.Field("deadline").Value.(bool)
	event.CaseID = stringPtr(f.String("case_id"))
	event.ClientID = nil

	if event.CaseID != nil {
		c, err := s.store.Cases.ByID(*event.CaseID)
		if err != nil {
			return err
		}
		event.ClientID = c.ClientID
	}
	return nil
}

func (s *CalendarService) Complete(id string) error {
	return s.store.Events.SetCompleted(id, true)
}

func (s *CalendarService) Delete(id string) error {
	return s.store.Events.Delete(id)
}
