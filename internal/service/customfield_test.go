package service

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/testutil"
)

func caseValues(extra url.Values) url.Values {
	values := url.Values{
		"style":       {"State v. Doe"},
		"case_number": {"CR-2024-001"},
		"case_type":   {model.CaseTypeCriminal},
		"status":      {model.CaseStatusOpen},
	}
	for k, v := range extra {
		values[k] = v
	}
	return values
}

func TestMissingRequiredFieldPersistsNothing(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	testutil.CreateField(t, env.store, "arresting_agency", model.TargetCase, model.FieldTypeText, true, "")

	cf, err := env.cases.NewForm(nil)
	if err != nil {
		t.Fatalf("NewForm() error: %v", err)
	}
	if cf.Bind(caseValues(nil)) {
		t.Fatal("Bind() = true without the required custom field")
	}

	_, err = env.cases.Create(cf)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}
	if errs := cf.Field("custom_arresting_agency").Errors; len(errs) == 0 {
		t.Error("required custom field has no error message")
	}

	cases, err := env.store.Cases.Cases("")
	if err != nil {
		t.Fatalf("Cases() error: %v", err)
	}
	if len(cases) != 0 {
		t.Errorf("got %d cases, want 0", len(cases))
	}
}

func TestSaveTwiceKeepsOneValue(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	field := testutil.CreateField(t, env.store, "bond_amount", model.TargetCase, model.FieldTypeNumber, false, "")

	cf, err := env.cases.NewForm(nil)
	if err != nil {
		t.Fatalf("NewForm() error: %v", err)
	}
	cf.Bind(caseValues(url.Values{"custom_bond_amount": {"5000"}}))
	c, err := env.cases.Create(cf)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	cf, err = env.cases.NewForm(c)
	if err != nil {
		t.Fatalf("NewForm(existing) error: %v", err)
	}
	cf.Bind(caseValues(url.Values{"custom_bond_amount": {"7500"}}))
	_, err = env.cases.Update(c.ID, cf)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	n, err := env.store.CustomFieldValues.Count(field.ID, model.TargetCase, c.ID)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d stored values, want 1", n)
	}

	values, err := env.customFields.TemplateValues(model.TargetCase, c.ID)
	if err != nil {
		t.Fatalf("TemplateValues() error: %v", err)
	}
	if got := values["bond_amount"]; got != int64(7500) {
		t.Errorf("bond_amount = %#v, want 7500", got)
	}
}

func TestLargeNumberReloadsExactly(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	testutil.CreateField(t, env.store, "bond_amount", model.TargetCase, model.FieldTypeNumber, false, "")

	// 2^53 + 1 has no exact float64 representation.
	const amount = "9007199254740993"

	cf, err := env.cases.NewForm(nil)
	if err != nil {
		t.Fatalf("NewForm() error: %v", err)
	}
	cf.Bind(caseValues(url.Values{"custom_bond_amount": {amount}}))
	c, err := env.cases.Create(cf)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	cf, err = env.cases.NewForm(c)
	if err != nil {
		t.Fatalf("NewForm(existing) error: %v", err)
	}
	if got := cf.Field("custom_bond_amount").Display(); got != amount {
		t.Errorf("prepopulated = %q, want %q", got, amount)
	}

	values, err := env.customFields.TemplateValues(model.TargetCase, c.ID)
	if err != nil {
		t.Fatalf("TemplateValues() error: %v", err)
	}
	if got := values["bond_amount"]; got != int64(9007199254740993) {
		t.Errorf("bond_amount = %#v, want 9007199254740993", got)
	}
}

func TestDeletingOwnerDeletesValues(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	caseField := testutil.CreateField(t, env.store, "judge_notes", model.TargetCase, model.FieldTypeText, false, "")
	clientField := testutil.CreateField(t, env.store, "referral", model.TargetClient, model.FieldTypeText, false, "")

	cf, err := env.cases.NewForm(nil)
	if err != nil {
		t.Fatalf("NewForm() error: %v", err)
	}
	cf.Bind(caseValues(url.Values{"custom_judge_notes": {"strict on continuances"}}))
	c, err := env.cases.Create(cf)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	clients := NewClientService(env.store, env.customFields, testutil.Clock)
	clf, err := clients.NewForm(nil)
	if err != nil {
		t.Fatalf("client NewForm() error: %v", err)
	}
	clf.Bind(url.Values{
		"name":            {"Jane Roe"},
		"email":           {"jane@example.com"},
		"custom_referral": {"bar association"},
	})
	client, err := clients.Create(clf)
	if err != nil {
		t.Fatalf("client Create() error: %v", err)
	}

	owners := []struct {
		name    string
		fieldID string
		target  string
		ownerID string
		remove  func(string) error
	}{
		{"case", caseField.ID, model.TargetCase, c.ID, env.cases.Delete},
		{"client", clientField.ID, model.TargetClient, client.ID, clients.Delete},
	}
	for _, o := range owners {
		n, err := env.store.CustomFieldValues.Count(o.fieldID, o.target, o.ownerID)
		if err != nil {
			t.Fatalf("%s: Count() error: %v", o.name, err)
		}
		if n != 1 {
			t.Fatalf("%s: got %d values before delete, want 1", o.name, n)
		}

		if err := o.remove(o.ownerID); err != nil {
			t.Fatalf("%s: Delete() error: %v", o.name, err)
		}

		n, err = env.store.CustomFieldValues.Count(o.fieldID, o.target, o.ownerID)
		if err != nil {
			t.Fatalf("%s: Count() error: %v", o.name, err)
		}
		if n != 0 {
			t.Errorf("%s: got %d values after delete, want 0", o.name, n)
		}
	}
}

func TestDateValuePrepopulates(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	testutil.CreateField(t, env.store, "arrest_date", model.TargetCase, model.FieldTypeDate, false, "")

	cf, err := env.cases.NewForm(nil)
	if err != nil {
		t.Fatalf("NewForm() error: %v", err)
	}
	cf.Bind(caseValues(url.Values{"custom_arrest_date": {"2024-03-15"}}))
	c, err := env.cases.Create(cf)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	cf, err = env.cases.NewForm(c)
	if err != nil {
		t.Fatalf("NewForm(existing) error: %v", err)
	}
	field := cf.Field("custom_arrest_date")
	if field == nil {
		t.Fatal("custom field not attached")
	}
	if got := field.Display(); got != "2024-03-15" {
		t.Errorf("Display() = %q, want 2024-03-15", got)
	}

	display, err := env.customFields.Display(model.TargetCase, c.ID)
	if err != nil {
		t.Fatalf("Display() error: %v", err)
	}
	if len(display) != 1 || display[0].Value != "March 15, 2024" {
		t.Errorf("Display() = %+v", display)
	}
}

func TestSaveFieldValuesIsUncommitted(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	field := testutil.CreateField(t, env.store, "judge_notes", model.TargetCase, model.FieldTypeText, false, "")
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	f := form.New()
	fields, err := env.customFields.Attach(f, model.TargetCase, c.ID)
	if err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	f.Bind(url.Values{"custom_judge_notes": {"strict on continuances"}})

	rollback := errors.New("rollback")
	err = env.store.InTx(func(tx *repository.Repositories) error {
		err := SaveFieldValues(tx.CustomFieldValues, c.ID, model.TargetCase, fields, f, testutil.Now)
		if err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("InTx() error = %v, want rollback", err)
	}

	n, err := env.store.CustomFieldValues.Count(field.ID, model.TargetCase, c.ID)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d values after rollback, want 0", n)
	}
}

func TestSaveFieldValuesRequiresOwner(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)

	err := SaveFieldValues(env.store.CustomFieldValues, " ", model.TargetCase, nil, form.New(), time.Now())
	if !errors.Is(err, ErrOwnerNotPersisted) {
		t.Errorf("SaveFieldValues() error = %v, want ErrOwnerNotPersisted", err)
	}
}

func TestFieldsRejectsUnknownTarget(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)

	_, err := env.customFields.Fields("invoice")
	if !errors.Is(err, repository.ErrInvalidTarget) {
		t.Errorf("Fields() error = %v, want ErrInvalidTarget", err)
	}
}

func TestHiddenFieldsAreNotAttached(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	shown := testutil.CreateField(t, env.store, "shown", model.TargetClient, model.FieldTypeText, false, "")
	hidden := testutil.CreateField(t, env.store, "hidden", model.TargetClient, model.FieldTypeText, false, "")
	testutil.CreateField(t, env.store, "case_only", model.TargetCase, model.FieldTypeText, false, "")

	_, err := env.customFields.ToggleVisible(hidden.ID)
	if err != nil {
		t.Fatalf("ToggleVisible() error: %v", err)
	}

	f := form.New()
	fields, err := env.customFields.Attach(f, model.TargetClient, "")
	if err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	if len(fields) != 1 || fields[0].ID != shown.ID {
		t.Fatalf("Attach() = %v, want only the visible client field", fields)
	}
	if f.Field("custom_hidden") != nil || f.Field("custom_case_only") != nil {
		t.Error("form carries fields that should not be attached")
	}
}

func TestCreateDefinition(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)

	values := url.Values{
		"name":       {"Plea"},
		"slug":       {"plea"},
		"label":      {"Plea"},
		"target":     {model.TargetCase},
		"field_type": {model.FieldTypeSelect},
		"options":    {"Guilty\nNot guilty"},
		"sort_order": {"10"},
		"visible":    {"y"},
	}

	f := DefinitionForm(nil)
	f.Bind(values)
	def, err := env.customFields.Create(f)
	if err != nil {
		t.Fatalf("Create() error: %v (%v)", err, f.Errors)
	}
	if len(def.OptionList()) != 2 || def.SortOrder != 10 || !def.Visible {
		t.Errorf("Create() = %+v", def)
	}

	f = DefinitionForm(nil)
	f.Bind(values)
	_, err = env.customFields.Create(f)
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("duplicate Create() error = %v, want ErrDuplicateSlug", err)
	}

	f = DefinitionForm(nil)
	values.Set("slug", "plea2")
	values.Set("options", "")
	f.Bind(values)
	_, err = env.customFields.Create(f)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("choice field without options error = %v, want ErrValidation", err)
	}
}
