package service

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/testutil"
)

func TestEditEvent(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	client := testutil.CreateClient(t, env.store, "John Doe", "john@example.com")
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, client)
	calendar := NewCalendarService(env.store, testutil.Clock)

	f, err := calendar.EventForm(c.ID)
	if err != nil {
		t.Fatalf("EventForm() error: %v", err)
	}
	f.Bind(url.Values{
		"name":     {"Arraignment"},
		"date":     {"2024-03-20"},
		"time":     {"14:30"},
		"deadline": {"y"},
		"case_id":  {c.ID},
	})
	event, err := calendar.Create(f, nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := calendar.Complete(event.ID); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	edit, err := calendar.EditForm(event)
	if err != nil {
		t.Fatalf("EditForm() error: %v", err)
	}
	prefilled := map[string]string{
		"name":    "Arraignment",
		"date":    "2024-03-20",
		"time":    "14:30",
		"case_id": c.ID,
	}
	for name, want := range prefilled {
		if got := edit.Field(name).Display(); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if !edit.Field("deadline").Selected("y") {
		t.Error("deadline not checked")
	}

	edit.Bind(url.Values{
		"name": {"Arraignment (continued)"},
		"date": {"2024-04-02"},
	})
	updated, err := calendar.Update(event.ID, edit)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	stored, err := calendar.ByID(updated.ID)
	if err != nil {
		t.Fatalf("ByID() error: %v", err)
	}
	if stored.Name != "Arraignment (continued)" {
		t.Errorf("Name = %q", stored.Name)
	}
	if want := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC); !stored.StartsAt.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", stored.StartsAt, want)
	}
	if stored.Deadline || stored.CaseID != nil || stored.ClientID != nil {
		t.Errorf("event = %+v, want deadline and links cleared", stored)
	}
	if !stored.Completed {
		t.Error("Update() reset Completed")
	}
}

func TestUpdateEventValidation(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	calendar := NewCalendarService(env.store, testutil.Clock)

	f, err := calendar.EventForm("")
	if err != nil {
		t.Fatalf("EventForm() error: %v", err)
	}
	f.Bind(url.Values{"name": {"Hearing"}, "date": {"2024-03-20"}, "time": {"25:99"}})
	_, err = calendar.Create(f, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}
	if len(f.Field("time").Errors) == 0 {
		t.Error("bad time has no error message")
	}

	f.Bind(url.Values{"name": {"Hearing"}, "date": {"2024-03-20"}})
	_, err = calendar.Update("missing", f)
	if !errors.Is(err, repository.ErrEventNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrEventNotFound", err)
	}
}
