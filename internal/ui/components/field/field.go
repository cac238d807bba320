// Package field renders form descriptors as labelled inputs.
package field

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/lexdesk/lexdesk/internal/form"
)

const baseInputClass = "block w-full rounded-md border border-slate-300 px-3 py-2 text-sm focus:border-slate-500 focus:outline-none"

func wrapperClass(f *form.Field) string {
	if len(f.Errors) > 0 {
		return twmerge.Merge("field space-y-1", "field-invalid")
	}
	return "field space-y-1"
}

func inputClass(f *form.Field) string {
	if len(f.Errors) > 0 {
		return twmerge.Merge(baseInputClass, "border-red-500")
	}
	return baseInputClass
}
