package layouts

import (
	"context"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/lexdesk/lexdesk/internal/ctxkeys"
)

type navItem struct {
	Href  string
	Label string
}

var nav = []navItem{
	{"/", "Dashboard"},
	{"/cases", "Cases"},
	{"/clients", "Clients"},
	{"/people", "People"},
	{"/documents", "Documents"},
	{"/documents/templates", "Templates"},
	{"/documents/bulk", "Generate"},
	{"/calendar", "Calendar"},
	{"/admin/custom-fields", "Custom fields"},
}

func appName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return "Lexdesk"
}

func pageTitle(title, app string) string {
	if title == "" {
		return app
	}
	return title + " · " + app
}

func navClass(href, current string) string {
	base := "text-sm text-slate-600 hover:text-slate-900"
	active := current == href
	if href != "/" && !active {
		active = strings.HasPrefix(current, href+"/")
		// /documents/templates and /documents/bulk have their own entries
		if href == "/documents" && (strings.HasPrefix(current, "/documents/templates") || strings.HasPrefix(current, "/documents/bulk")) {
			active = false
		}
	}
	if active {
		return twmerge.Merge(base, "font-medium text-slate-900")
	}
	return base
}
