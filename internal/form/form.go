// Package form describes HTML forms as an ordered list of typed field
// descriptors. Forms are assembled at runtime, so admin-declared custom
// fields and built-in fields share one binding, validation and rendering
// path.
package form

import (
	"net/url"
	"strings"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Not a valid choice."
	MsgInvalidDate   = "Not a valid date value."
	MsgInvalidNumber = "Not a valid integer value."
)

// Form is an ordered set of fields plus form-level errors.
type Form struct {
	Fields []*Field
	Errors []string
	bound  bool
}

func New(fields ...*Field) *Form {
	return &Form{Fields: fields}
}

// Add appends fields in order. A field whose name is already present
// replaces the earlier one in place.
func (f *Form) Add(fields ...*Field) {
	for _, field := range fields {
		replaced := false
		for i, existing := range f.Fields {
			if existing.Name == field.Name {
				f.Fields[i] = field
				replaced = true
				break
			}
		}
		if !replaced {
			f.Fields = append(f.Fields, field)
		}
	}
}

// Field returns the field named name, or nil.
func (f *Form) Field(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// Bind reads every field from values, coerces and validates it, and
// reports whether the whole form is valid.
func (f *Form) Bind(values url.Values) bool {
	f.bound = true
	f.Errors = nil
	for _, field := range f.Fields {
		field.bind(values[field.Name])
	}
	return f.Valid()
}

func (f *Form) Bound() bool {
	return f.bound
}

func (f *Form) Valid() bool {
	if len(f.Errors) > 0 {
		return false
	}
	for _, field := range f.Fields {
		if len(field.Errors) > 0 {
			return false
		}
	}
	return true
}

// AddError attaches msg to the named field, or to the form when no such
// field exists.
func (f *Form) AddError(name, msg string) {
	if field := f.Field(name); field != nil {
		field.Errors = append(field.Errors, msg)
		return
	}
	f.Errors = append(f.Errors, msg)
}

// String returns the trimmed text value of a field, "" if absent.
func (f *Form) String(name string) string {
	field := f.Field(name)
	if field == nil {
		return ""
	}
	s, _ := field.Value.(string)
	return strings.TrimSpace(s)
}
