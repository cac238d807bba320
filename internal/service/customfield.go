package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/validation"
	"gorm.io/datatypes"
)

var (
	ErrOwnerNotPersisted = errors.New("owner must be saved before its custom field values")
	ErrDuplicateSlug     = errors.New("a custom field with this slug already exists")
)

type CustomFieldService struct {
	store *repository.Store
	now   Clock
}

func NewCustomFieldService(store *repository.Store, now Clock) *CustomFieldService {
	if now == nil {
		now = utcNow
	}
	return &CustomFieldService{
		store: store,
		now:   now,
	}
}

// Fields returns the visible definitions for target in display order.
func (s *CustomFieldService) Fields(target string) ([]*model.CustomField, error) {
	if !validTarget(target) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidTarget, target)
	}
	return s.store.CustomFields.Visible(target)
}

// Attach appends a descriptor for every visible field of target to f. With
// a non-empty ownerID the descriptors are pre-populated from stored values.
// It returns the definitions attached, in the order they were added.
func (s *CustomFieldService) Attach(f *form.Form, target, ownerID string) ([]*model.CustomField, error) {
	fields, err := s.Fields(target)
	if err != nil {
		return nil, err
	}

	for _, def := range fields {
		field := form.FromCustomField(def)
		if ownerID != "" {
			value, err := s.store.CustomFieldValues.Value(def.ID, target, ownerID)
			if err != nil && !errors.Is(err, repository.ErrCustomFieldValueNotFound) {
				return nil, fmt.Errorf("failed to load value for %s: %w", def.Slug, err)
			}
			if value != nil {
				field.Set(form.DecodeStored(value.Value))
			}
		}
		f.Add(field)
	}

	return fields, nil
}

// SaveFieldValues upserts the submitted value of every field in fields for
// one owner. Fields absent from f are skipped. Nothing is committed here:
// values must be bound to the caller's transaction.
func SaveFieldValues(values repository.CustomFieldValueRepository, ownerID, target string, fields []*model.CustomField, f *form.Form, now time.Time) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrOwnerNotPersisted
	}

	for _, def := range fields {
		field := f.Field(def.FormName())
		if field == nil {
			continue
		}

		payload, err := field.Encode()
		if err != nil {
			return err
		}

		err = values.Upsert(def.ID, target, ownerID, datatypes.JSON(payload), now)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", def.Slug, err)
		}
	}

	return nil
}

// TemplateValues returns an owner's values keyed by slug, shaped for
// document templates.
func (s *CustomFieldService) TemplateValues(target, ownerID string) (map[string]any, error) {
	values := map[string]any{}
	if ownerID == "" {
		return values, nil
	}

	entries, err := s.store.CustomFieldValues.Entries(target, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom values: %w", err)
	}

	for _, e := range entries {
		values[e.Slug] = form.TemplateValue(e.FieldType, e.Value)
	}
	return values, nil
}

// FieldDisplay is one custom value formatted for a detail page.
type FieldDisplay struct {
	Slug  string
	Label string
	Value string
}

// Display formats an owner's stored values for its detail page.
func (s *CustomFieldService) Display(target, ownerID string) ([]FieldDisplay, error) {
	entries, err := s.store.CustomFieldValues.Entries(target, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom values: %w", err)
	}

	out := make([]FieldDisplay, 0, len(entries))
	for _, e := range entries {
		out = append(out, FieldDisplay{Slug: e.Slug, Label: e.Label, Value: displayValue(e)})
	}
	return out, nil
}

// displayValue renders a stored value as text, mapping choice values to
// their labels.
func displayValue(e *model.CustomFieldEntry) string {
	def := &model.CustomField{FieldType: e.FieldType, Options: e.Options}
	v := form.TemplateValue(e.FieldType, e.Value)

	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case time.Time:
		return x.Format("January 2, 2006")
	case []string:
		labels := make([]string, 0, len(x))
		for _, item := range x {
			labels = append(labels, model.ChoiceLabel(def.OptionList(), item))
		}
		return strings.Join(labels, ", ")
	case string:
		if def.IsChoice() {
			return model.ChoiceLabel(def.OptionList(), x)
		}
		return x
	}
	return fmt.Sprint(v)
}

func (s *CustomFieldService) All() ([]*model.CustomField, error) {
	return s.store.CustomFields.All()
}

func (s *CustomFieldService) ByID(id string) (*model.CustomField, error) {
	return s.store.CustomFields.ByID(id)
}

// DefinitionForm is the admin form for a field definition. With def set it
// is pre-populated for editing.
func DefinitionForm(def *model.CustomField) *form.Form {
	f := form.New(
		form.Text("name", "Name").Require().Help("Internal name."),
		form.Text("slug", "Slug").Require().Help("Stable key used by document templates, e.g. incident_date."),
		form.Text("label", "Label").Require(),
		form.Select("target", "Applies to", model.FieldTargets).Require(),
		form.Select("field_type", "Field type", model.FieldTypes).Require(),
		form.Textarea("options", "Options").Help("For select, radio and checkbox: a JSON object, a JSON list, or one option per line."),
		form.Boolean("required", "Required"),
		form.Textarea("help_text", "Help text"),
		form.Number("sort_order", "Sort order"),
		form.Boolean("visible", "Visible"),
	)

	if def == nil {
		f.Field("sort_order").Set(model.DefaultFieldSortOrder)
		f.Field("visible").Set(true)
		return f
	}

	f.Field("name").Set(def.Name)
	f.Field("slug").Set(def.Slug)
	f.Field("label").Set(def.Label)
	f.Field("target").Set(def.Target)
	f.Field("field_type").Set(def.FieldType)
	f.Field("options").Set(derefString(def.Options))
	f.Field("required").Set(def.Required)
	f.Field("help_text").Set(def.HelpText)
	f.Field("sort_order").Set(def.SortOrder)
	f.Field("visible").Set(def.Visible)
	return f
}

// Create validates a bound definition form and inserts the field.
func (s *CustomFieldService) Create(f *form.Form) (*model.CustomField, error) {
	now := s.now()
	def := &model.CustomField{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !s.apply(def, f) {
		return nil, ErrValidation
	}

	err := s.store.CustomFields.Create(def)
	if errors.Is(err, repository.ErrDuplicateFieldSlug) {
		f.AddError("slug", ErrDuplicateSlug.Error())
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create custom field: %w", err)
	}

	return def, nil
}

func (s *CustomFieldService) Update(id string, f *form.Form) (*model.CustomField, error) {
	def, err := s.store.CustomFields.ByID(id)
	if err != nil {
		return nil, err
	}
	if !s.apply(def, f) {
		return nil, ErrValidation
	}
	def.UpdatedAt = s.now()

	err = s.store.CustomFields.Update(def)
	if errors.Is(err, repository.ErrDuplicateFieldSlug) {
		f.AddError("slug", ErrDuplicateSlug.Error())
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update custom field: %w", err)
	}

	return def, nil
}

// ToggleVisible flips a field's visibility. Hidden fields keep their
// values but are no longer attached to forms.
func (s *CustomFieldService) ToggleVisible(id string) (*model.CustomField, error) {
	def, err := s.store.CustomFields.ByID(id)
	if err != nil {
		return nil, err
	}

	def.Visible = !def.Visible
	err = s.store.CustomFields.SetVisible(id, def.Visible)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle custom field: %w", err)
	}

	return def, nil
}

// apply copies a bound form into def and runs the cross-field checks. It
// reports whether the form is valid.
func (s *CustomFieldService) apply(def *model.CustomField, f *form.Form) bool {
	if !f.Valid() {
		return false
	}

	def.Name = f.String("name")
	def.Slug = strings.ToLower(f.String("slug"))
	def.Label = f.String("label")
	def.Target = f.String("target")
	def.FieldType = f.String("field_type")
	def.Options = stringPtr(f.String("options"))
	def.Required, _ = f.Field("required").Value.(bool)
	def.HelpText = f.String("help_text")
	def.Visible, _ = f.Field("visible").Value.(bool)
	def.SortOrder = model.DefaultFieldSortOrder
	if n, ok := f.Field("sort_order").Value.(int64); ok {
		def.SortOrder = int(n)
	}

	if err := validation.ValidateSlug(def.Slug); err != nil {
		f.AddError("slug", err.Error())
	}
	if err := validation.ValidateRequired("label", def.Label, 200); err != nil {
		f.AddError("label", err.Error())
	}
	if def.IsChoice() && len(def.OptionList()) == 0 {
		f.AddError("options", "Choice fields need at least one option.")
	}

	return f.Valid()
}

func validTarget(target string) bool {
	return target == model.TargetCase || target == model.TargetClient
}
