// Package pages holds the full-page views. Each page wraps its body in
// layouts.Base.
package pages

import (
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/lexdesk/lexdesk/internal/model"
)

const (
	btnClass       = "inline-flex items-center rounded-md border border-slate-300 bg-white px-3 py-1.5 text-sm hover:bg-slate-100"
	tableClass     = "w-full divide-y divide-slate-200 rounded-md border bg-white text-sm"
	cellClass      = "px-3 py-2 text-left"
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 15:04"
)

type link struct {
	Href  string
	Label string
}

var documentSorts = []model.Choice{
	{Value: model.DocumentSortRecentlyAdded, Label: "Recently added"},
	{Value: model.DocumentSortRecentlyViewed, Label: "Recently viewed"},
	{Value: model.DocumentSortName, Label: "Name"},
	{Value: model.DocumentSortCase, Label: "Case"},
	{Value: model.DocumentSortClient, Label: "Client"},
}

func buttonClass(danger bool) string {
	if danger {
		return twmerge.Merge(btnClass, "border-red-300 text-red-700 hover:bg-red-50")
	}
	return btnClass
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func toggleLabel(visible bool) string {
	if visible {
		return "Hide"
	}
	return "Show"
}

func previewHref(slug, caseID string) string {
	href := "/documents/types/" + slug + "/preview"
	if caseID != "" {
		href += "?case_id=" + caseID
	}
	return href
}

func documentActions(doc *model.Document) []link {
	actions := []link{{"/documents/" + doc.ID + "/pdf", "Download PDF"}}
	if doc.CaseID != nil {
		actions = append(actions, link{"/cases/" + *doc.CaseID, "Case"})
	}
	return actions
}
