package form

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/lexdesk/lexdesk/internal/model"
)

func TestBindRequired(t *testing.T) {
	f := New(
		Text("name", "Name").Require(),
		Date("filed", "Filed").Require(),
		Select("status", "Status", model.CaseStatuses).Require(),
		Checkboxes("tags", "Tags", []model.Choice{{Value: "a", Label: "A"}}).Require(),
	)

	if f.Bind(url.Values{"name": {"  "}}) {
		t.Fatal("Bind() = true for empty required fields")
	}
	for _, field := range f.Fields {
		if len(field.Errors) != 1 || field.Errors[0] != MsgRequired {
			t.Errorf("%s errors = %v, want [%q]", field.Name, field.Errors, MsgRequired)
		}
	}
}

func TestBindCoerces(t *testing.T) {
	f := New(
		Text("name", "Name"),
		Date("filed", "Filed"),
		Number("count", "Count"),
		Boolean("urgent", "Urgent"),
		Checkboxes("tags", "Tags", []model.Choice{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}),
	)

	ok := f.Bind(url.Values{
		"name":   {" Jane "},
		"filed":  {"2024-03-15"},
		"count":  {"7"},
		"urgent": {"y"},
		"tags":   {"b", "", "a"},
	})
	if !ok {
		t.Fatalf("Bind() = false: %+v", f.Fields)
	}

	if got := f.String("name"); got != "Jane" {
		t.Errorf("name = %q", got)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := f.Field("filed").Time(); got == nil || !got.Equal(want) {
		t.Errorf("filed = %v, want %v", got, want)
	}
	if got := f.Field("count").Value; got != int64(7) {
		t.Errorf("count = %#v", got)
	}
	if got := f.Field("urgent").Value; got != true {
		t.Errorf("urgent = %#v", got)
	}
	if got := f.Field("tags").Strings(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("tags = %v", got)
	}
}

func TestBindRejectsBadInput(t *testing.T) {
	f := New(
		Date("filed", "Filed"),
		Number("count", "Count"),
		Select("status", "Status", model.CaseStatuses),
		Checkboxes("tags", "Tags", []model.Choice{{Value: "a", Label: "A"}}),
	)

	if f.Bind(url.Values{"filed": {"15/03/2024"}, "count": {"1.5"}, "status": {"gone"}, "tags": {"a", "z"}}) {
		t.Fatal("Bind() = true for invalid input")
	}

	cases := map[string]string{
		"filed":  MsgInvalidDate,
		"count":  MsgInvalidNumber,
		"status": MsgInvalidChoice,
	}
	for name, msg := range cases {
		errs := f.Field(name).Errors
		if len(errs) != 1 || errs[0] != msg {
			t.Errorf("%s errors = %v, want [%q]", name, errs, msg)
		}
	}
	if len(f.Field("tags").Errors) != 1 {
		t.Errorf("tags errors = %v", f.Field("tags").Errors)
	}

	// Invalid input is echoed back.
	if got := f.Field("filed").Display(); got != "15/03/2024" {
		t.Errorf("filed Display() = %q", got)
	}
}

func TestAddError(t *testing.T) {
	f := New(Text("name", "Name"))
	f.AddError("name", "taken")
	f.AddError("", "whole form")

	if f.Valid() {
		t.Error("Valid() = true after AddError")
	}
	if !reflect.DeepEqual(f.Field("name").Errors, []string{"taken"}) {
		t.Errorf("field errors = %v", f.Field("name").Errors)
	}
	if !reflect.DeepEqual(f.Errors, []string{"whole form"}) {
		t.Errorf("form errors = %v", f.Errors)
	}
}

func TestWithBlank(t *testing.T) {
	f := Select("s", "S", model.CaseStatuses).WithBlank().WithBlank()
	if len(f.Choices) != len(model.CaseStatuses)+1 || f.Choices[0].Value != "" {
		t.Errorf("choices = %v", f.Choices)
	}
}
