package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	TargetCase   = "case"
	TargetClient = "client"
)

const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeSelect   = "select"
	FieldTypeRadio    = "radio"
	FieldTypeCheckbox = "checkbox"
	FieldTypeBoolean  = "boolean"
	FieldTypeDate     = "date"
	FieldTypeNumber   = "number"
)

const DefaultFieldSortOrder = 100

var FieldTargets = []Choice{
	{Value: TargetCase, Label: "Case"},
	{Value: TargetClient, Label: "Client"},
}

var FieldTypes = []Choice{
	{Value: FieldTypeText, Label: "Text"},
	{Value: FieldTypeTextarea, Label: "Textarea"},
	{Value: FieldTypeSelect, Label: "Select"},
	{Value: FieldTypeRadio, Label: "Radio"},
	{Value: FieldTypeCheckbox, Label: "Checkbox (multi-select)"},
	{Value: FieldTypeBoolean, Label: "Boolean"},
	{Value: FieldTypeDate, Label: "Date"},
	{Value: FieldTypeNumber, Label: "Number"},
}

// Choice is a (value, label) pair offered by a choice input.
type Choice struct {
	Value string
	Label string
}

// CustomField is an admin-declared extra field attached to cases or clients.
// Slug is the stable key: values are looked up and rendered by slug.
type CustomField struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	Label     string    `db:"label"`
	Target    string    `db:"target"`
	FieldType string    `db:"field_type"`
	Options   *string   `db:"options"`
	Required  bool      `db:"required"`
	HelpText  string    `db:"help_text"`
	SortOrder int       `db:"sort_order"`
	Visible   bool      `db:"visible"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FormName is the form input name carrying this field's value.
func (f *CustomField) FormName() string {
	return "custom_" + f.Slug
}

// IsChoice reports whether the field type draws its values from Options.
func (f *CustomField) IsChoice() bool {
	switch f.FieldType {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	}
	return false
}

// OptionList parses Options, or returns nil when none are set.
func (f *CustomField) OptionList() []Choice {
	if f.Options == nil {
		return nil
	}
	return ParseOptions(*f.Options)
}

// ParseOptions decodes an options blob. Accepted forms, tried in order:
//
//	{"v1": "Label 1", "v2": "Label 2"}   object, key order preserved
//	[["v1", "Label 1"], "v2"]            list of pairs or bare values
//	v1\nv2                               one value per line
//
// JSON of any other shape yields no options. ParseOptions never fails.
func ParseOptions(raw string) []Choice {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if json.Valid([]byte(trimmed)) {
		switch trimmed[0] {
		case '{':
			return parseOptionObject([]byte(trimmed))
		case '[':
			return parseOptionList([]byte(trimmed))
		}
		return nil
	}

	var choices []Choice
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		choices = append(choices, Choice{Value: line, Label: line})
	}
	return choices
}

func parseOptionObject(data []byte) []Choice {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil
	}

	var choices []Choice
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := tok.(string)

		var label json.RawMessage
		if err := dec.Decode(&label); err != nil {
			return nil
		}
		choices = append(choices, Choice{Value: key, Label: jsonText(label)})
	}
	return choices
}

func parseOptionList(data []byte) []Choice {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	choices := make([]Choice, 0, len(items))
	for _, item := range items {
		var pair []json.RawMessage
		if json.Unmarshal(item, &pair) == nil && len(pair) >= 2 {
			choices = append(choices, Choice{Value: jsonText(pair[0]), Label: jsonText(pair[1])})
			continue
		}
		text := jsonText(item)
		choices = append(choices, Choice{Value: text, Label: text})
	}
	return choices
}

// jsonText renders a JSON scalar as display text: strings unquoted, null
// empty, anything else as its literal.
func jsonText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(bytes.TrimSpace(raw))
}

// CustomFieldValue holds one field's value for exactly one owner.
// Value is the JSON encoding of the submitted value.
type CustomFieldValue struct {
	ID        string         `db:"id"`
	FieldID   string         `db:"field_id"`
	CaseID    *string        `db:"case_id"`
	ClientID  *string        `db:"client_id"`
	Value     datatypes.JSON `db:"value"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// CustomFieldEntry is a value joined with its field definition.
type CustomFieldEntry struct {
	Slug      string         `db:"slug"`
	Label     string         `db:"label"`
	FieldType string         `db:"field_type"`
	Options   *string        `db:"options"`
	Value     datatypes.JSON `db:"value"`
}
