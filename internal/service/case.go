package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/doctype"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
)

type CaseService struct {
	store        *repository.Store
	customFields *CustomFieldService
	now          Clock
}

func NewCaseService(store *repository.Store, customFields *CustomFieldService, now Clock) *CaseService {
	if now == nil {
		now = utcNow
	}
	return &CaseService{
		store:        store,
		customFields: customFields,
		now:          now,
	}
}

// CaseForm is the case form plus the custom field definitions attached to it.
type CaseForm struct {
	*form.Form
	Fields []*model.CustomField
}

// NewForm builds the case form. With c set, base fields and custom fields
// are pre-populated from the stored case.
func (s *CaseService) NewForm(c *model.Case) (*CaseForm, error) {
	clients, err := s.store.Clients.Clients("")
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	clientChoices := make([]model.Choice, 0, len(clients))
	for _, cl := range clients {
		clientChoices = append(clientChoices, model.Choice{Value: cl.ID, Label: cl.Name})
	}

	f := form.New(
		form.Text("style", "Case style").Require().Help("e.g. State v. Doe"),
		form.Text("case_number", "Case number").Require(),
		form.Select("case_type", "Case type", model.CaseTypes).WithBlank(),
		form.Select("status", "Status", model.CaseStatuses).Require(),
		form.Select("client_id", "Client", clientChoices).WithBlank(),
		form.Text("judge", "Judge"),
		form.Text("court", "Court"),
		form.Textarea("parties", "Parties"),
		form.Text("defendant", "Defendant"),
		form.Textarea("charges", "Charges"),
		form.Text("decedent_name", "Decedent name"),
		form.Text("estate_value", "Estate value"),
		form.Text("accident_location", "Accident location"),
		form.Textarea("description", "Description"),
		form.Date("filed_date", "Filed date"),
		form.Date("retained_date", "Retained date"),
		form.Date("date_of_death", "Date of death"),
		form.Date("accident_date", "Accident date"),
	)

	ownerID := ""
	if c != nil {
		ownerID = c.ID
		f.Field("style").Set(c.Style)
		f.Field("case_number").Set(c.CaseNumber)
		f.Field("case_type").Set(c.CaseType)
		f.Field("status").Set(c.Status)
		f.Field("client_id").Set(derefString(c.ClientID))
		f.Field("judge").Set(c.Judge)
		f.Field("court").Set(c.Court)
		f.Field("parties").Set(c.Parties)
		f.Field("defendant").Set(c.Defendant)
		f.Field("charges").Set(c.Charges)
		f.Field("decedent_name").Set(c.DecedentName)
		f.Field("estate_value").Set(c.EstateValue)
		f.Field("accident_location").Set(c.AccidentLocation)
		f.Field("description").Set(c.Description)
		f.Field("filed_date").Set(c.FiledDate)
		f.Field("retained_date").Set(c.RetainedDate)
		f.Field("date_of_death").Set(c.DateOfDeath)
		f.Field("accident_date").Set(c.AccidentDate)
	} else {
		f.Field("status").Set(model.CaseStatusOpen)
	}

	fields, err := s.customFields.Attach(f, model.TargetCase, ownerID)
	if err != nil {
		return nil, err
	}

	return &CaseForm{Form: f, Fields: fields}, nil
}

// Create inserts the case and its custom values in one transaction.
func (s *CaseService) Create(cf *CaseForm) (*model.Case, error) {
	if !cf.Valid() {
		return nil, ErrValidation
	}

	now := s.now()
	c := &model.Case{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCaseForm(c, cf.Form)

	err := s.store.InTx(func(tx *repository.Repositories) error {
		err := tx.Cases.Create(c)
		if err != nil {
			return err
		}
		return SaveFieldValues(tx.CustomFieldValues, c.ID, model.TargetCase, cf.Fields, cf.Form, now)
	})
	if errors.Is(err, repository.ErrDuplicateCaseNumber) {
		cf.AddError("case_number", "A case with this number already exists.")
		return nil, ErrValidation
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	return c, nil
}

func (s *CaseService) Update(id string, cf *CaseForm) (*model.Case, error) {
	c, err := s.store.Cases.ByID(id)
	if err != nil {
		return nil, err
	}
	if !cf.Valid() {
		return nil, ErrValidation
	}

	now := s.now()
	applyCaseForm(c, cf.Form)
	c.UpdatedAt = now

	err = s.store.InTx(func(tx *repository.Repositories) error {
		err := tx.Cases.Update(c)
		if err != nil {
			return err
		}
		return SaveFieldValues(tx.CustomFieldValues, c.ID, model.TargetCase, cf.Fields, cf.Form, now)
	})
	if errors.Is(err, repository.ErrDuplicateCaseNumber) {
		cf.AddError("case_number", "A case with this number already exists.")
		return nil, ErrValidation
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}

	return c, nil
}

func applyCaseForm(c *model.Case, f *form.Form) {
	c.Style = f.String("style")
	c.CaseNumber = f.String("case_number")
	c.CaseType = f.String("case_type")
	c.Status = f.String("status")
	c.ClientID = stringPtr(f.String("client_id"))
	c.Judge = f.String("judge")
	c.Court = f.String("court")
	c.Parties = f.String("parties")
	c.Defendant = f.String("defendant")
	c.Charges = f.String("charges")
	c.DecedentName = f.String("decedent_name")
	c.EstateValue = f.String("estate_value")
	c.AccidentLocation = f.String("accident_location")
	c.Description = f.String("description")
	c.FiledDate = f.Field("filed_date").Time()
	c.RetainedDate = f.Field("retained_date").Time()
	c.DateOfDeath = f.Field("date_of_death").Time()
	c.AccidentDate = f.Field("accident_date").Time()
}

func (s *CaseService) ByID(id string) (*model.Case, error) {
	return s.store.Cases.ByID(id)
}

func (s *CaseService) Cases(search string) ([]*model.Case, error) {
	return s.store.Cases.Cases(search)
}

// Delete removes the case. Custom values, document rows and notes go with
// it through the schema's cascades.
func (s *CaseService) Delete(id string) error {
	return s.store.Cases.Delete(id)
}

// CaseDetail is everything the case page shows.
type CaseDetail struct {
	Case      *model.Case
	Client    *model.Client
	Custom    []FieldDisplay
	Documents []*model.Document
	Notes     []*model.Note
	Events    []*model.CalendarEvent
	DocTypes  []doctype.DocType
}

func (s *CaseService) Detail(id string) (*CaseDetail, error) {
	c, err := s.store.Cases.ByID(id)
	if err != nil {
		return nil, err
	}

	detail := &CaseDetail{
		Case:     c,
		DocTypes: doctype.Allowed(c.CaseType),
	}

	if c.ClientID != nil {
		detail.Client, err = s.store.Clients.ByID(*c.ClientID)
		if err != nil && !errors.Is(err, repository.ErrClientNotFound) {
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
	}

	detail.Custom, err = s.customFields.Display(model.TargetCase, c.ID)
	if err != nil {
		return nil, err
	}

	detail.Documents, err = s.store.Documents.ByCase(c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	detail.Notes, err = s.store.Notes.ByCase(c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	detail.Events, err = s.store.Events.ByCase(c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	return detail, nil
}

// dateOnly truncates t to midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
