package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/validation"
)

// PersonService keeps the people directory.
type PersonService struct {
	people repository.PersonRepository
	now    Clock
}

func NewPersonService(people repository.PersonRepository, now Clock) *PersonService {
	if now == nil {
		now = utcNow
	}
	return &PersonService{
		people: people,
		now:    now,
	}
}

// NewForm returns the person form, filled from person when it is not nil.
func (s *PersonService) NewForm(person *model.Person) *form.Form {
	f := form.New(
		form.Text("name", "Name").Require(),
		form.Text("email", "Email"),
		form.Text("phone", "Phone"),
		form.Text("address", "Address"),
	)
	if person != nil {
		f.Field("name").Set(person.Name)
		f.Field("email").Set(derefString(person.Email))
		f.Field("phone").Set(derefString(person.Phone))
		f.Field("address").Set(person.Address)
	}
	return f
}

func (s *PersonService) People(search string) ([]*model.Person, error) {
	return s.people.People(search)
}

func (s *PersonService) ByID(id string) (*model.Person, error) {
	return s.people.ByID(id)
}

func (s *PersonService) Create(f *form.Form) (*model.Person, error) {
	if !validPersonForm(f) {
		return nil, ErrValidation
	}

	now := s.now()
	person := &model.Person{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPersonForm(person, f)

	err := s.people.Create(person)
	if errors.Is(err, repository.ErrDuplicatePerson) {
		f.AddError("", "Someone with this email or phone is already listed.")
		return nil, ErrValidation
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	return person, nil
}

func (s *PersonService) Update(id string, f *form.Form) (*model.Person, error) {
	person, err := s.people.ByID(id)
	if err != nil {
		return nil, err
	}
	if !validPersonForm(f) {
		return nil, ErrValidation
	}

	applyPersonForm(person, f)
	person.UpdatedAt = s.now()

	err = s.people.Update(person)
	if errors.Is(err, repository.ErrDuplicatePerson) {
		f.AddError("", "Someone with this email or phone is already listed.")
		return nil, ErrValidation
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	return person, nil
}

func (s *PersonService) Delete(id string) error {
	return s.people.Delete(id)
}

func validPersonForm(f *form.Form) bool {
	if !f.Valid() {
		return false
	}

	limits := map[string]int{"name": 255, "email": 120, "phone": 20, "address": 255}
	for name, max := range limits {
		if len([]rune(strings.TrimSpace(f.String(name)))) > max {
			f.AddError(name, fmt.Sprintf("Must be at most %d characters.", max))
		}
	}
	if email := strings.TrimSpace(f.String("email")); email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			f.AddError("email", err.Error())
		}
	}
	return f.Valid()
}

// applyPersonForm copies the form onto person. Blank email and phone are
// stored as NULL so they do not collide on the unique indexes.
func applyPersonForm(person *model.Person, f *form.Form) {
	person.Name = strings.TrimSpace(f.String("name"))
	person.Email = stringPtr(strings.ToLower(strings.TrimSpace(f.String("email"))))
	person.Phone = stringPtr(strings.TrimSpace(f.String("phone")))
	person.Address = strings.TrimSpace(f.String("address"))
}
