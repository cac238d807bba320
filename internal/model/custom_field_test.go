package model

import (
	"reflect"
	"testing"
)

func TestParseOptions(t *testing.T) {
	pairs := []Choice{{Value: "a", Label: "Alpha"}, {Value: "b", Label: "Beta"}}
	same := []Choice{{Value: "Alpha", Label: "Alpha"}, {Value: "Beta", Label: "Beta"}}

	tests := []struct {
		name string
		raw  string
		want []Choice
	}{
		{"json object", `{"a": "Alpha", "b": "Beta"}`, pairs},
		{"json pairs", `[["a", "Alpha"], ["b", "Beta"]]`, pairs},
		{"json strings", `["Alpha", "Beta"]`, same},
		{"lines", "Alpha\nBeta\n", same},
		{"lines with blanks and spaces", "  Alpha \n\n Beta\r\n", same},
		{"json number", `42`, nil},
		{"json string", `"Alpha"`, nil},
		{"empty", "", nil},
		{"whitespace", "  \n ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptions(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOptions(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseOptionsKeepsObjectOrder(t *testing.T) {
	got := ParseOptions(`{"z": "Last", "a": "First"}`)
	if len(got) != 2 || got[0].Value != "z" || got[1].Value != "a" {
		t.Errorf("got %v, want keys in document order", got)
	}
}

func TestCustomFieldOptionList(t *testing.T) {
	f := &CustomField{FieldType: FieldTypeSelect}
	if got := f.OptionList(); got != nil {
		t.Errorf("nil options: got %v", got)
	}

	opts := "Yes\nNo"
	f.Options = &opts
	if got := f.OptionList(); len(got) != 2 {
		t.Errorf("got %d options, want 2", len(got))
	}
	if !f.IsChoice() {
		t.Error("select should be a choice type")
	}
	if f.FormName() != "custom_" {
		t.Errorf("FormName() = %q", f.FormName())
	}
}

func TestCaseReference(t *testing.T) {
	c := &Case{Style: "State v. Doe", CaseNumber: "CR-2024-001"}
	if got := c.Reference(); got != "CR-2024-001" {
		t.Errorf("Reference() = %q", got)
	}
	c.CaseNumber = ""
	if got := c.Reference(); got != "State v. Doe" {
		t.Errorf("Reference() without number = %q", got)
	}
}
