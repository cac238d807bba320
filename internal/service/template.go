package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/doctype"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/render"
	"github.com/lexdesk/lexdesk/internal/repository"
)

const (
	SourceOverride    = "override"
	SourceDefault     = "default"
	SourcePlaceholder = "placeholder"
)

var templateFormats = []model.Choice{
	{Value: model.TemplateFormatHTML, Label: "HTML"},
	{Value: model.TemplateFormatMarkdown, Label: "Markdown"},
}

// Resolved is the body chosen for a document type.
type Resolved struct {
	Slug   string
	Label  string
	Body   string
	Format string
	Source string
	// TemplateID is set when Source is SourceOverride.
	TemplateID string
}

type TemplateService struct {
	templates repository.TemplateRepository
	now       Clock
}

func NewTemplateService(templates repository.TemplateRepository, now Clock) *TemplateService {
	if now == nil {
		now = utcNow
	}
	return &TemplateService{
		templates: templates,
		now:       now,
	}
}

// Resolve picks the body for slug. A stored template whose name contains
// the type's label (case-insensitively) wins, the most recently updated
// first. Otherwise the built-in body, otherwise a one-line placeholder.
func (s *TemplateService) Resolve(slug string) (*Resolved, error) {
	label := doctype.Label(slug)

	t, err := s.templates.MatchName(strings.ToLower(label))
	if err == nil {
		return &Resolved{
			Slug:       slug,
			Label:      label,
			Body:       t.Content,
			Format:     templateFormat(t.Format),
			Source:     SourceOverride,
			TemplateID: t.ID,
		}, nil
	}
	if !errors.Is(err, repository.ErrTemplateNotFound) {
		return nil, fmt.Errorf("failed to look up template for %s: %w", slug, err)
	}

	if body, ok := doctype.Default(slug); ok {
		return &Resolved{
			Slug:   slug,
			Label:  label,
			Body:   body,
			Format: model.TemplateFormatHTML,
			Source: SourceDefault,
		}, nil
	}

	return &Resolved{
		Slug:   slug,
		Label:  label,
		Body:   doctype.Placeholder,
		Format: model.TemplateFormatHTML,
		Source: SourcePlaceholder,
	}, nil
}

func templateFormat(format string) string {
	if format == model.TemplateFormatMarkdown {
		return format
	}
	return model.TemplateFormatHTML
}

func (s *TemplateService) Templates() ([]*model.Template, error) {
	return s.templates.Templates()
}

func (s *TemplateService) ByID(id string) (*model.Template, error) {
	return s.templates.ByID(id)
}

func TemplateForm(t *model.Template) *form.Form {
	f := form.New(
		form.Text("name", "Name").Require().Help("Include a document type label, e.g. \"Notice of Appearance (Criminal)\", to override its built-in body."),
		form.Select("format", "Format", templateFormats).Require(),
		form.Textarea("content", "Content").Require(),
	)

	if t == nil {
		f.Field("format").Set(model.TemplateFormatHTML)
		return f
	}

	f.Field("name").Set(t.Name)
	f.Field("format").Set(templateFormat(t.Format))
	f.Field("content").Set(t.Content)
	return f
}

func (s *TemplateService) Create(f *form.Form) (*model.Template, error) {
	if !validTemplateForm(f) {
		return nil, ErrValidation
	}

	now := s.now()
	t := &model.Template{
		ID:        uuid.New().String(),
		Name:      f.String("name"),
		Format:    f.String("format"),
		Content:   f.String("content"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.templates.Create(t)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return t, nil
}

func (s *TemplateService) Update(id string, f *form.Form) (*model.Template, error) {
	t, err := s.templates.ByID(id)
	if err != nil {
		return nil, err
	}
	if !validTemplateForm(f) {
		return nil, ErrValidation
	}

	t.Name = f.String("name")
	t.Format = f.String("format")
	t.Content = f.String("content")
	t.UpdatedAt = s.now()

	err = s.templates.Update(t)
	if err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return t, nil
}

func (s *TemplateService) Delete(id string) error {
	return s.templates.Delete(id)
}

// validTemplateForm also rejects bodies that do not parse.
func validTemplateForm(f *form.Form) bool {
	if !f.Valid() {
		return false
	}
	if err := render.Check(f.String("content"), f.String("format")); err != nil {
		f.AddError("content", err.Error())
	}
	return f.Valid()
}
