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

type ClientService struct {
	store        *repository.Store
	customFields *CustomFieldService
	now          Clock
}

func NewClientService(store *repository.Store, customFields *CustomFieldService, now Clock) *ClientService {
	if now == nil {
		now = utcNow
	}
	return &ClientService{
		store:        store,
		customFields: customFields,
		now:          now,
	}
}

type ClientForm struct {
	*form.Form
	Fields []*model.CustomField
}

func (s *ClientService) NewForm(client *model.Client) (*ClientForm, error) {
	f := form.New(
		form.Text("name", "Name").Require(),
		form.Text("email", "Email").Require(),
		form.Text("phone", "Phone"),
		form.Textarea("address", "Address"),
		form.Textarea("notes", "Notes"),
	)

	ownerID := ""
	if client != nil {
		ownerID = client.ID
		f.Field("name").Set(client.Name)
		f.Field("email").Set(client.Email)
		f.Field("phone").Set(client.Phone)
		f.Field("address").Set(client.Address)
		f.Field("notes").Set(client.Notes)
	}

	fields, err := s.customFields.Attach(f, model.TargetClient, ownerID)
	if err != nil {
		return nil, err
	}

	return &ClientForm{Form: f, Fields: fields}, nil
}

// Create inserts the client and its custom values in one transaction.
func (s *ClientService) Create(cf *ClientForm) (*model.Client, error) {
	if !validClientForm(cf.Form) {
		return nil, ErrValidation
	}

	now := s.now()
	client := &model.Client{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyClientForm(client, cf.Form)

	err := s.store.InTx(func(tx *repository.Repositories) error {
		err := tx.Clients.Create(client)
		if err != nil {
			return err
		}
		return SaveFieldValues(tx.CustomFieldValues, client.ID, model.TargetClient, cf.Fields, cf.Form, now)
	})
	if errors.Is(err, repository.ErrDuplicateClientEmail) {
		cf.AddError("email", "A client with this email already exists.")
		return nil, ErrValidation
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func (s *ClientService) Update(id string, cf *ClientForm) (*model.Client, error) {
	client, err := s.store.Clients.ByID(id)
	if err != nil {
		return nil, err
	}
	if !validClientForm(cf.Form) {
		return nil, ErrValidation
	}

	now := s.now()
	applyClientForm(client, cf.Form)
	client.UpdatedAt = now

	err = s.store.InTx(func(tx *repository.Repositories) error {
		err := tx.Clients.Update(client)
		if err != nil {
			return err
		}
		return SaveFieldValues(tx.CustomFieldValues, client.ID, model.TargetClient, cf.Fields, cf.Form, now)
	})
	if errors.Is(err, repository.ErrDuplicateClientEmail) {
		cf.AddError("email", "A client with this email already exists.")
		return nil, ErrValidation
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

func validClientForm(f *form.Form) bool {
	if !f.Valid() {
		return false
	}
	if err := validation.ValidateEmail(f.String("email")); err != nil {
		f.AddError("email", err.Error())
	}
	return f.Valid()
}

func applyClientForm(client *model.Client, f *form.Form) {
	client.Name = f.String("name")
	client.Email = strings.ToLower(f.String("email"))
	client.Phone = f.String("phone")
	client.Address = f.String("address")
	client.Notes = f.String("notes")
}

func (s *ClientService) ByID(id string) (*model.Client, error) {
	return s.store.Clients.ByID(id)
}

func (s *ClientService) Clients(search string) ([]*model.Client, error) {
	return s.store.Clients.Clients(search)
}

func (s *ClientService) Delete(id string) error {
	return s.store.Clients.Delete(id)
}

type ClientDetail struct {
	Client *model.Client
	Custom []FieldDisplay
	Cases  []*model.Case
}

func (s *ClientService) Detail(id string) (*ClientDetail, error) {
	client, err := s.store.Clients.ByID(id)
	if err != nil {
		return nil, err
	}

	detail := &ClientDetail{Client: client}

	detail.Custom, err = s.customFields.Display(model.TargetClient, client.ID)
	if err != nil {
		return nil, err
	}

	detail.Cases, err = s.store.Cases.ByClient(client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}

	return detail, nil
}
