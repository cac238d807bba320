package form

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/lexdesk/lexdesk/internal/model"
)

func field(fieldType, options string, required bool) *model.CustomField {
	def := &model.CustomField{Slug: "f", Label: "F", FieldType: fieldType, Required: required}
	if options != "" {
		def.Options = &options
	}
	return def
}

func TestFromCustomField(t *testing.T) {
	tests := []struct {
		fieldType string
		kind      Kind
		widget    Widget
	}{
		{model.FieldTypeText, KindText, ""},
		{model.FieldTypeTextarea, KindTextarea, ""},
		{model.FieldTypeSelect, KindChoice, WidgetSelect},
		{model.FieldTypeRadio, KindChoice, WidgetRadio},
		{model.FieldTypeCheckbox, KindMultiChoice, WidgetCheckboxes},
		{model.FieldTypeBoolean, KindBoolean, ""},
		{model.FieldTypeDate, KindDate, ""},
		{model.FieldTypeNumber, KindNumber, ""},
		{"colour", KindText, ""},
	}

	for _, tt := range tests {
		t.Run(tt.fieldType, func(t *testing.T) {
			f := FromCustomField(field(tt.fieldType, "a\nb", false))
			if f.Kind != tt.kind || f.Widget != tt.widget {
				t.Errorf("got kind %v widget %q, want %v %q", f.Kind, f.Widget, tt.kind, tt.widget)
			}
			if f.Name != "custom_f" {
				t.Errorf("Name = %q", f.Name)
			}
		})
	}
}

func TestOptionalSelectGetsBlank(t *testing.T) {
	optional := FromCustomField(field(model.FieldTypeSelect, "a\nb", false))
	if len(optional.Choices) != 3 || optional.Choices[0].Value != "" {
		t.Errorf("optional choices = %v", optional.Choices)
	}
	required := FromCustomField(field(model.FieldTypeSelect, "a\nb", true))
	if len(required.Choices) != 2 {
		t.Errorf("required choices = %v", required.Choices)
	}
}

func TestCheckboxRoundTrip(t *testing.T) {
	for _, selected := range [][]string{{"a", "b"}, {"b"}, {}} {
		f := FromCustomField(field(model.FieldTypeCheckbox, `["a", "b"]`, false))
		f.bind(selected)

		raw, err := f.Encode()
		if err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		if len(selected) == 0 && string(raw) != "[]" {
			t.Errorf("empty selection encoded as %s, want []", raw)
		}

		again := FromCustomField(field(model.FieldTypeCheckbox, `["a", "b"]`, false))
		again.Set(DecodeStored(raw))
		if !reflect.DeepEqual(again.Strings(), selected) {
			t.Errorf("round trip of %v gave %v", selected, again.Strings())
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	f := FromCustomField(field(model.FieldTypeDate, "", false))
	f.bind([]string{"2024-03-15"})

	raw, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if string(raw) != `"2024-03-15"` {
		t.Errorf("Encode() = %s", raw)
	}

	again := FromCustomField(field(model.FieldTypeDate, "", false))
	again.Set(DecodeStored(raw))
	if got := again.Display(); got != "2024-03-15" {
		t.Errorf("Display() = %q", got)
	}

	v := TemplateValue(model.FieldTypeDate, raw)
	if d, ok := v.(time.Time); !ok || d.Day() != 15 {
		t.Errorf("TemplateValue() = %#v", v)
	}
}

func TestEmptyDateEncodesNull(t *testing.T) {
	f := FromCustomField(field(model.FieldTypeDate, "", false))
	f.bind(nil)
	raw, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if string(raw) != "null" {
		t.Errorf("Encode() = %s, want null", raw)
	}
}

func TestSetIsLenient(t *testing.T) {
	n := FromCustomField(field(model.FieldTypeNumber, "", false))
	n.Set(DecodeStored([]byte(`"not a number"`)))
	if n.Value != nil || n.Display() != "not a number" {
		t.Errorf("number Set: value %#v display %q", n.Value, n.Display())
	}

	b := FromCustomField(field(model.FieldTypeBoolean, "", false))
	b.Set(DecodeStored([]byte(`"yes"`)))
	if b.Value != true {
		t.Errorf("boolean Set(\"yes\") = %#v", b.Value)
	}

	m := FromCustomField(field(model.FieldTypeCheckbox, "a", false))
	m.Set(DecodeStored([]byte(`"a"`)))
	if !reflect.DeepEqual(m.Strings(), []string{"a"}) {
		t.Errorf("multi Set(scalar) = %v", m.Strings())
	}
}

func TestNumberKeepsEveryDigit(t *testing.T) {
	tests := []struct {
		stored      string
		wantValue   any
		wantDisplay string
	}{
		{"9007199254740993", int64(9007199254740993), "9007199254740993"},
		{"-42", int64(-42), "-42"},
		{"99999999999999999999", nil, "99999999999999999999"},
		{"12.5", nil, "12.5"},
	}
	for _, tt := range tests {
		f := FromCustomField(field(model.FieldTypeNumber, "", false))
		f.Set(DecodeStored([]byte(tt.stored)))
		if f.Value != tt.wantValue {
			t.Errorf("Set(%s) value = %#v, want %#v", tt.stored, f.Value, tt.wantValue)
		}
		if got := f.Display(); got != tt.wantDisplay {
			t.Errorf("Set(%s) display = %q, want %q", tt.stored, got, tt.wantDisplay)
		}
	}

	if got := TemplateValue(model.FieldTypeNumber, []byte("9007199254740993")); got != int64(9007199254740993) {
		t.Errorf("TemplateValue() = %#v", got)
	}
}

func TestDecodeStoredFallsBackToText(t *testing.T) {
	for _, raw := range []string{"legacy text", `"a" trailing`} {
		if got := DecodeStored([]byte(raw)); got != raw {
			t.Errorf("DecodeStored(%q) = %#v", raw, got)
		}
	}
}

func TestBindFromValues(t *testing.T) {
	f := New(FromCustomField(field(model.FieldTypeRadio, `{"y": "Yes", "n": "No"}`, true)))
	if !f.Bind(url.Values{"custom_f": {"n"}}) {
		t.Fatalf("Bind() = false: %v", f.Fields[0].Errors)
	}
	if !f.Fields[0].Selected("n") {
		t.Error("n not selected")
	}
}
