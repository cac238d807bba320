// Package doctype holds the catalog of generatable document types: their
// labels, built-in bodies, and which types suit which case types.
package doctype

import (
	"embed"
	"strings"

	"github.com/lexdesk/lexdesk/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed defaults/*.html
var defaultsFS embed.FS

type DocType struct {
	Slug  string
	Label string
}

// All lists every document type in display order.
var All = []DocType{
	{"letter_to_client", "Letter to Client"},
	{"letter_to_insurance", "Letter to Insurance Company"},
	{"letter_to_opposing", "Letter to Opposing Counsel"},
	{"general_letter", "General Letter"},
	{"motion", "Motion"},
	{"demand", "Demand"},
	{"notice", "Notice"},
	{"billing", "Billing"},
	{"notice_of_appearance", "Notice of Appearance (Criminal)"},
	{"written_plea_not_guilty", "Written Plea of Not Guilty (Criminal)"},
	{"demand_for_discovery", "Demand for Discovery (Criminal)"},
	{"blank_motion", "Blank Motion (Criminal - bare bones)"},
	{"petition_for_administration", "Petition for Administration (Estate)"},
	{"letter_of_representation", "Letter of Representation (Personal Injury)"},
}

// byCaseType lists the document types offered for each case type. Unset
// case types use the "other" list.
var byCaseType = map[string][]string{
	model.CaseTypeCriminal:       {"notice_of_appearance", "written_plea_not_guilty", "demand_for_discovery", "blank_motion"},
	model.CaseTypeEstate:         {"petition_for_administration"},
	model.CaseTypePersonalInjury: {"letter_of_representation"},
	model.CaseTypeOther:          {"letter_of_representation", "blank_motion"},
}

var titleCaser = cases.Title(language.English)

// Known reports whether slug is in the catalog.
func Known(slug string) bool {
	for _, dt := range All {
		if dt.Slug == slug {
			return true
		}
	}
	return false
}

// Label returns the catalog label for slug, or the slug title-cased with
// underscores as spaces when it is not in the catalog.
func Label(slug string) string {
	for _, dt := range All {
		if dt.Slug == slug {
			return dt.Label
		}
	}
	return titleCaser.String(strings.ReplaceAll(slug, "_", " "))
}

// Default returns the built-in body for slug.
func Default(slug string) (string, bool) {
	if !Known(slug) {
		return "", false
	}
	b, err := defaultsFS.ReadFile("defaults/" + slug + ".html")
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Placeholder is the body used when a slug has neither an override nor a
// built-in default.
const Placeholder = `<p>{{ .Label }} for {{ .Case.Style }}</p>`

// Allowed returns the document types offered for a case type, in catalog
// order of the case-type list.
func Allowed(caseType string) []DocType {
	slugs, ok := byCaseType[caseType]
	if !ok {
		slugs = byCaseType[model.CaseTypeOther]
	}

	out := make([]DocType, 0, len(slugs))
	for _, slug := range slugs {
		out = append(out, DocType{Slug: slug, Label: Label(slug)})
	}
	return out
}
