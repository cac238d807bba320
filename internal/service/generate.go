package service

import (
	"fmt"

	"github.com/lexdesk/lexdesk/internal/doctype"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
)

// GenerateForm selects document types to generate, and on the bulk page
// also the case.
type GenerateForm struct {
	*form.Form
	DocTypes []doctype.DocType
}

func docTypeChoices(types []doctype.DocType) []model.Choice {
	choices := make([]model.Choice, 0, len(types))
	for _, dt := range types {
		choices = append(choices, model.Choice{Value: dt.Slug, Label: dt.Label})
	}
	return choices
}

// CaseGenerateForm offers the document types allowed for c's case type.
func CaseGenerateForm(c *model.Case) *GenerateForm {
	types := doctype.Allowed(c.CaseType)
	f := form.New(
		form.Checkboxes("doc_types", "Document types", docTypeChoices(types)),
	)
	return &GenerateForm{Form: f, DocTypes: types}
}

// BulkGenerateForm offers every document type for any case.
func (s *DocumentService) BulkGenerateForm() (*GenerateForm, error) {
	cases, err := s.store.Cases.Cases("")
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	caseChoices := make([]model.Choice, 0, len(cases))
	for _, c := range cases {
		caseChoices = append(caseChoices, model.Choice{Value: c.ID, Label: c.Style + " (" + c.CaseNumber + ")"})
	}

	f := form.New(
		form.Select("case_id", "Case", caseChoices).Require().WithBlank(),
		form.Checkboxes("doc_types", "Document types", docTypeChoices(doctype.All)),
	)
	return &GenerateForm{Form: f, DocTypes: doctype.All}, nil
}

// Slugs splits the submitted document types into those offered by the form
// and failures for the rest. It adds a form error when nothing is selected.
func (f *GenerateForm) Slugs() ([]string, []Failure, bool) {
	field := f.Field("doc_types")
	submitted := field.Strings()
	// Per-slug failures replace the field's invalid-choice errors.
	field.Errors = nil

	if len(submitted) == 0 {
		f.AddError("doc_types", ErrNoDocTypes.Error()+".")
		return nil, nil, false
	}

	offered := make(map[string]bool, len(f.DocTypes))
	for _, dt := range f.DocTypes {
		offered[dt.Slug] = true
	}

	var slugs []string
	var failures []Failure
	for _, slug := range submitted {
		switch {
		case offered[slug]:
			slugs = append(slugs, slug)
		case !doctype.Known(slug):
			failures = append(failures, Failure{Slug: slug, Label: doctype.Label(slug), Err: ErrUnknownDocType})
		default:
			failures = append(failures, Failure{Slug: slug, Label: doctype.Label(slug), Err: ErrDocTypeNotAllowed})
		}
	}
	return slugs, failures, true
}

// TemplateGenerateForm picks a stored template, a case and an optional
// filename.
func (s *DocumentService) TemplateGenerateForm(templateID, caseID string) (*form.Form, error) {
	templates, err := s.templates.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	templateChoices := make([]model.Choice, 0, len(templates))
	for _, t := range templates {
		templateChoices = append(templateChoices, model.Choice{Value: t.ID, Label: t.Name})
	}

	cases, err := s.store.Cases.Cases("")
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	caseChoices := make([]model.Choice, 0, len(cases))
	for _, c := range cases {
		caseChoices = append(caseChoices, model.Choice{Value: c.ID, Label: c.Style + " (" + c.CaseNumber + ")"})
	}

	f := form.New(
		form.Select("template_id", "Template", templateChoices).Require().WithBlank(),
		form.Select("case_id", "Case", caseChoices).Require().WithBlank(),
		form.Text("filename", "Filename").Help("Optional. Defaults to template, case and timestamp."),
	)
	f.Field("template_id").Set(templateID)
	f.Field("case_id").Set(caseID)
	return f, nil
}
