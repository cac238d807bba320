package doctype

import (
	"strings"
	"testing"

	"github.com/lexdesk/lexdesk/internal/model"
)

func TestLabel(t *testing.T) {
	if got := Label("notice_of_appearance"); got != "Notice of Appearance (Criminal)" {
		t.Errorf("Label(catalog slug) = %q", got)
	}
	if got := Label("motion_to_dismiss"); got != "Motion To Dismiss" {
		t.Errorf("Label(unknown slug) = %q", got)
	}
}

func TestEveryTypeHasDefault(t *testing.T) {
	for _, dt := range All {
		body, ok := Default(dt.Slug)
		if !ok || strings.TrimSpace(body) == "" {
			t.Errorf("%s has no built-in body", dt.Slug)
		}
	}
	if _, ok := Default("../doctype"); ok {
		t.Error("Default() accepted a slug outside the catalog")
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		caseType string
		want     []string
	}{
		{model.CaseTypeCriminal, []string{"notice_of_appearance", "written_plea_not_guilty", "demand_for_discovery", "blank_motion"}},
		{model.CaseTypeEstate, []string{"petition_for_administration"}},
		{model.CaseTypePersonalInjury, []string{"letter_of_representation"}},
		{"", []string{"letter_of_representation", "blank_motion"}},
		{"maritime", []string{"letter_of_representation", "blank_motion"}},
	}

	for _, tt := range tests {
		got := Allowed(tt.caseType)
		if len(got) != len(tt.want) {
			t.Errorf("Allowed(%q) = %v, want %v", tt.caseType, got, tt.want)
			continue
		}
		for i, dt := range got {
			if dt.Slug != tt.want[i] || dt.Label == "" {
				t.Errorf("Allowed(%q)[%d] = %+v, want slug %s", tt.caseType, i, dt, tt.want[i])
			}
			if !Known(dt.Slug) {
				t.Errorf("Allowed(%q) offers unknown slug %s", tt.caseType, dt.Slug)
			}
		}
	}
}
