package service

import (
	"errors"
	"net/url"
	"testing"

	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/testutil"
)

func TestPersonDirectory(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	people := NewPersonService(env.store.People, testutil.Clock)

	f := people.NewForm(nil)
	f.Bind(url.Values{"name": {"Opposing Counsel"}, "email": {"Counsel@Example.com"}})
	counsel, err := people.Create(f)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if counsel.Email == nil || *counsel.Email != "counsel@example.com" || counsel.Phone != nil {
		t.Errorf("person = %+v, want lowercased email and no phone", counsel)
	}
	if got := counsel.Contact(); got != "counsel@example.com" {
		t.Errorf("Contact() = %q", got)
	}

	// Two people without an email do not collide.
	for _, name := range []string{"Witness One", "Witness Two"} {
		f := people.NewForm(nil)
		f.Bind(url.Values{"name": {name}})
		if _, err := people.Create(f); err != nil {
			t.Fatalf("Create(%s) error: %v", name, err)
		}
	}

	dup := people.NewForm(nil)
	dup.Bind(url.Values{"name": {"Someone Else"}, "email": {"counsel@example.com"}})
	_, err = people.Create(dup)
	if !errors.Is(err, ErrValidation) || len(dup.Errors) == 0 {
		t.Errorf("Create(duplicate email) error = %v, form errors %v", err, dup.Errors)
	}

	found, err := people.People("witness")
	if err != nil {
		t.Fatalf("People() error: %v", err)
	}
	if len(found) != 2 || found[0].Name != "Witness One" {
		t.Errorf("People(witness) = %d results", len(found))
	}

	edit := people.NewForm(counsel)
	if got := edit.Field("email").Display(); got != "counsel@example.com" {
		t.Errorf("prefilled email = %q", got)
	}
	edit.Bind(url.Values{"name": {"Opposing Counsel"}, "phone": {"555-0100"}})
	updated, err := people.Update(counsel.ID, edit)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Email != nil || updated.Contact() != "555-0100" {
		t.Errorf("updated = %+v", updated)
	}

	if err := people.Delete(counsel.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := people.ByID(counsel.ID); !errors.Is(err, repository.ErrPersonNotFound) {
		t.Errorf("ByID(deleted) error = %v, want ErrPersonNotFound", err)
	}
}

func TestPersonFormValidation(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	people := NewPersonService(env.store.People, testutil.Clock)

	f := people.NewForm(nil)
	f.Bind(url.Values{"name": {"Clerk"}, "email": {"not-an-email"}})
	_, err := people.Create(f)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}
	if len(f.Field("email").Errors) == 0 {
		t.Error("invalid email has no error message")
	}
}
