package service

import (
	"errors"
	"net/url"
	"testing"

	"github.com/lexdesk/lexdesk/internal/doctype"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/testutil"
)

func TestCaseGenerateFormSlugs(t *testing.T) {
	f := CaseGenerateForm(&model.Case{CaseType: model.CaseTypeCriminal})
	if len(f.DocTypes) != 4 {
		t.Fatalf("criminal case offers %d types, want 4", len(f.DocTypes))
	}

	f.Bind(url.Values{"doc_types": {"notice_of_appearance", "letter_to_client", "bogus"}})
	slugs, failures, ok := f.Slugs()
	if !ok {
		t.Fatal("Slugs() ok = false")
	}
	if !f.Valid() {
		t.Errorf("form invalid after Slugs(): %v", f.Field("doc_types").Errors)
	}
	if len(slugs) != 1 || slugs[0] != "notice_of_appearance" {
		t.Errorf("slugs = %v", slugs)
	}

	if len(failures) != 2 {
		t.Fatalf("failures = %v, want 2", failures)
	}
	if failures[0].Slug != "letter_to_client" || !errors.Is(failures[0].Err, ErrDocTypeNotAllowed) {
		t.Errorf("failures[0] = %+v, want letter_to_client not allowed", failures[0])
	}
	if failures[1].Slug != "bogus" || !errors.Is(failures[1].Err, ErrUnknownDocType) {
		t.Errorf("failures[1] = %+v, want bogus unknown", failures[1])
	}
}

func TestCaseGenerateFormRequiresSelection(t *testing.T) {
	f := CaseGenerateForm(&model.Case{CaseType: model.CaseTypeEstate})
	f.Bind(url.Values{})

	_, _, ok := f.Slugs()
	if ok {
		t.Fatal("Slugs() ok = true with nothing selected")
	}
	if len(f.Field("doc_types").Errors) == 0 {
		t.Error("no error on doc_types")
	}
}

func TestBulkGenerateForm(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	f, err := env.documents.BulkGenerateForm()
	if err != nil {
		t.Fatalf("BulkGenerateForm() error: %v", err)
	}
	if len(f.DocTypes) != len(doctype.All) {
		t.Errorf("bulk form offers %d types, want all %d", len(f.DocTypes), len(doctype.All))
	}

	f.Bind(url.Values{"case_id": {c.ID}, "doc_types": {"letter_to_client", "billing"}})
	slugs, failures, ok := f.Slugs()
	if !ok || !f.Valid() || len(failures) != 0 || len(slugs) != 2 {
		t.Errorf("Slugs() = %v, %v, %v", slugs, failures, ok)
	}
}
