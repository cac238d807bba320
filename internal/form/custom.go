package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lexdesk/lexdesk/internal/model"
)

// FromCustomField builds the descriptor for an admin-declared field.
// Unknown field types render as text.
func FromCustomField(def *model.CustomField) *Field {
	field := &Field{
		Name:     def.FormName(),
		Label:    def.Label,
		Required: def.Required,
		HelpText: def.HelpText,
	}

	switch def.FieldType {
	case model.FieldTypeTextarea:
		field.Kind = KindTextarea
		field.Value = ""
	case model.FieldTypeSelect, model.FieldTypeRadio:
		field.Kind = KindChoice
		field.Widget = WidgetSelect
		if def.FieldType == model.FieldTypeRadio {
			field.Widget = WidgetRadio
		}
		field.Choices = def.OptionList()
		field.Value = ""
		if !def.Required {
			field.WithBlank()
		}
	case model.FieldTypeCheckbox:
		field.Kind = KindMultiChoice
		field.Widget = WidgetCheckboxes
		field.Choices = def.OptionList()
		field.Value = []string{}
	case model.FieldTypeBoolean:
		field.Kind = KindBoolean
		field.Value = false
	case model.FieldTypeDate:
		field.Kind = KindDate
	case model.FieldTypeNumber:
		field.Kind = KindNumber
	default:
		field.Kind = KindText
		field.Value = ""
	}

	return field
}

// Encode serializes the field's current value for storage. Multi-choice
// values always encode as a JSON array, [] when nothing is selected.
func (f *Field) Encode() ([]byte, error) {
	var v any
	switch f.Kind {
	case KindMultiChoice:
		values := f.Strings()
		if values == nil {
			values = []string{}
		}
		v = values
	case KindDate:
		if t := f.Time(); t != nil {
			v = t.Format(DateLayout)
		}
	default:
		v = f.Value
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Name, err)
	}
	return b, nil
}

// DecodeStored decodes a stored value. Numbers decode as json.Number so
// integers keep every digit. Payloads that are not valid JSON are returned
// as the raw string.
func DecodeStored(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return string(raw)
	}
	return v
}

// TemplateValue converts a stored value into what document templates see:
// dates as time.Time, arrays as []string, whole numbers as int64 and
// everything else as decoded.
func TemplateValue(fieldType string, raw []byte) any {
	v := DecodeStored(raw)
	switch fieldType {
	case model.FieldTypeDate:
		if s, ok := v.(string); ok {
			if t, err := time.Parse(DateLayout, s); err == nil {
				return t
			}
		}
	case model.FieldTypeCheckbox:
		if items, ok := v.([]any); ok {
			out := make([]string, 0, len(items))
			for _, item := range items {
				out = append(out, scalarString(item))
			}
			return out
		}
	case model.FieldTypeNumber:
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return i
			}
		}
	}
	return v
}
