// Package toast renders notification toasts, either inline in a page or
// as htmx out-of-band swaps into #toast-container.
package toast

import (
	"context"
	"net/http"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/lexdesk/lexdesk/internal/ui"
)

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Props struct {
	Title       string
	Description string
	Variant     Variant
	Icon        bool
	Dismissible bool
	Class       string
}

var variantClasses = map[Variant]string{
	VariantDefault: "border-slate-200 bg-white text-slate-900",
	VariantSuccess: "border-green-200 bg-green-50 text-green-900",
	VariantError:   "border-red-200 bg-red-50 text-red-900",
	VariantWarning: "border-amber-200 bg-amber-50 text-amber-900",
	VariantInfo:    "border-sky-200 bg-sky-50 text-sky-900",
}

var variantIcons = map[Variant]string{
	VariantSuccess: "✓",
	VariantError:   "✕",
	VariantWarning: "!",
	VariantInfo:    "i",
}

func (p Props) variant() Variant {
	if p.Variant == "" {
		return VariantDefault
	}
	return p.Variant
}

func (p Props) class() string {
	return twmerge.Merge(
		"toast pointer-events-auto flex w-full max-w-sm items-start gap-3 rounded-md border p-4 shadow-md",
		variantClasses[p.variant()],
		p.Class,
	)
}

func (p Props) icon() (string, bool) {
	icon, ok := variantIcons[p.variant()]
	return icon, ok && p.Icon
}

type toastsKey struct{}

// Push queues a toast for the page rendered for r.
func Push(r *http.Request, p Props) *http.Request {
	existing := FromContext(r.Context())
	toasts := append(existing[:len(existing):len(existing)], p)
	return r.WithContext(context.WithValue(r.Context(), toastsKey{}, toasts))
}

func FromContext(ctx context.Context) []Props {
	toasts, _ := ctx.Value(toastsKey{}).([]Props)
	return toasts
}

func Success(title, description string) Props {
	return Props{Title: title, Description: description, Variant: VariantSuccess, Icon: true, Dismissible: true}
}

func Error(title, description string) Props {
	return Props{Title: title, Description: description, Variant: VariantError, Icon: true, Dismissible: true}
}

func Warning(title, description string) Props {
	return Props{Title: title, Description: description, Variant: VariantWarning, Icon: true, Dismissible: true}
}

// Respond shows p: as an out-of-band swap for htmx requests, otherwise by
// queueing it on r for the page the caller renders next.
func Respond(w http.ResponseWriter, r *http.Request, p Props) *http.Request {
	if ui.IsHTMX(r) {
		ui.RenderOOB(w, r, Toast(p), "beforeend:#toast-container")
		return r
	}
	return Push(r, p)
}
