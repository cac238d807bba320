package form

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lexdesk/lexdesk/internal/model"
)

// DateLayout is the wire and storage format of date fields.
const DateLayout = "2006-01-02"

// Kind decides how a field coerces submitted text and what Value holds.
type Kind int

const (
	KindText Kind = iota
	KindTextarea
	KindChoice
	KindMultiChoice
	KindBoolean
	KindDate
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTextarea:
		return "textarea"
	case KindChoice:
		return "choice"
	case KindMultiChoice:
		return "multichoice"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindNumber:
		return "number"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Widget picks the input a choice kind renders as.
type Widget string

const (
	WidgetDefault    Widget = ""
	WidgetSelect     Widget = "select"
	WidgetRadio      Widget = "radio"
	WidgetCheckboxes Widget = "checkboxes"
)

// Field is one input. After Bind (or Set) Value holds the coerced value:
//
//	KindText, KindTextarea, KindChoice  string
//	KindMultiChoice                     []string, never nil
//	KindBoolean                         bool
//	KindDate                            time.Time, or nil when empty
//	KindNumber                          int64, or nil when empty
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Widget   Widget
	Required bool
	HelpText string
	Choices  []model.Choice

	Value  any
	Errors []string

	// raw keeps the submitted text so an invalid value is echoed back.
	raw []string
}

func Text(name, label string) *Field {
	return &Field{Name: name, Label: label, Kind: KindText, Value: ""}
}

func Textarea(name, label string) *Field {
	return &Field{Name: name, Label: label, Kind: KindTextarea, Value: ""}
}

func Select(name, label string, choices []model.Choice) *Field {
	return &Field{Name: name, Label: label, Kind: KindChoice, Widget: WidgetSelect, Choices: choices, Value: ""}
}

func Checkboxes(name, label string, choices []model.Choice) *Field {
	return &Field{Name: name, Label: label, Kind: KindMultiChoice, Widget: WidgetCheckboxes, Choices: choices, Value: []string{}}
}

func Boolean(name, label string) *Field {
	return &Field{Name: name, Label: label, Kind: KindBoolean, Value: false}
}

func Number(name, label string) *Field {
	return &Field{Name: name, Label: label, Kind: KindNumber}
}

func Date(name, label string) *Field {
	return &Field{Name: name, Label: label, Kind: KindDate}
}

// Help sets the help text and returns the field.
func (f *Field) Help(text string) *Field {
	f.HelpText = text
	return f
}

// Require marks the field required and returns it.
func (f *Field) Require() *Field {
	f.Required = true
	return f
}

// WithBlank prepends an empty choice unless one is already present.
func (f *Field) WithBlank() *Field {
	if len(f.Choices) > 0 && f.Choices[0].Value == "" {
		return f
	}
	f.Choices = append([]model.Choice{{Value: "", Label: ""}}, f.Choices...)
	return f
}

func (f *Field) bind(raw []string) {
	f.Errors = nil
	f.raw = raw

	first := ""
	if len(raw) > 0 {
		first = raw[0]
	}

	switch f.Kind {
	case KindMultiChoice:
		values := []string{}
		for _, v := range raw {
			if v != "" {
				values = append(values, v)
			}
		}
		f.Value = values
		if f.Required && len(values) == 0 {
			f.Errors = append(f.Errors, MsgRequired)
			return
		}
		for _, v := range values {
			if !f.hasChoice(v) {
				f.Errors = append(f.Errors, fmt.Sprintf("'%s' is not a valid choice for this field.", v))
			}
		}

	case KindBoolean:
		checked := parseBool(first)
		f.Value = checked
		if f.Required && !checked {
			f.Errors = append(f.Errors, MsgRequired)
		}

	case KindDate:
		f.Value = nil
		s := strings.TrimSpace(first)
		if s == "" {
			if f.Required {
				f.Errors = append(f.Errors, MsgRequired)
			}
			return
		}
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			f.Errors = append(f.Errors, MsgInvalidDate)
			return
		}
		f.Value = t

	case KindNumber:
		f.Value = nil
		s := strings.TrimSpace(first)
		if s == "" {
			if f.Required {
				f.Errors = append(f.Errors, MsgRequired)
			}
			return
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			f.Errors = append(f.Errors, MsgInvalidNumber)
			return
		}
		f.Value = n

	case KindChoice:
		f.Value = first
		if first == "" {
			if f.Required {
				f.Errors = append(f.Errors, MsgRequired)
			}
			return
		}
		if !f.hasChoice(first) {
			f.Errors = append(f.Errors, MsgInvalidChoice)
		}

	default:
		f.Value = first
		if f.Required && strings.TrimSpace(first) == "" {
			f.Errors = append(f.Errors, MsgRequired)
		}
	}
}

func (f *Field) hasChoice(v string) bool {
	return slices.ContainsFunc(f.Choices, func(c model.Choice) bool { return c.Value == v })
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}

// Set pre-populates the field from a decoded stored value (the result of
// DecodeStored). Values of an unexpected shape are coerced leniently and
// never fail: the field renders whatever could be recovered.
func (f *Field) Set(data any) {
	f.raw = nil

	switch f.Kind {
	case KindMultiChoice:
		var values []string
		switch v := data.(type) {
		case []any:
			for _, item := range v {
				values = append(values, scalarString(item))
			}
		case nil:
		default:
			if s := scalarString(v); s != "" {
				values = []string{s}
			}
		}
		if values == nil {
			values = []string{}
		}
		f.Value = values

	case KindBoolean:
		switch v := data.(type) {
		case bool:
			f.Value = v
		default:
			f.Value = parseBool(scalarString(v))
		}

	case KindDate:
		switch v := data.(type) {
		case time.Time:
			f.Value = v
		case *time.Time:
			if v != nil {
				f.Value = *v
			} else {
				f.Value = nil
			}
		default:
			s := scalarString(v)
			if t, err := time.Parse(DateLayout, s); err == nil {
				f.Value = t
			} else if s != "" {
				// Keep unparseable legacy text visible to the user.
				f.Value = nil
				f.raw = []string{s}
			} else {
				f.Value = nil
			}
		}

	case KindNumber:
		switch v := data.(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				f.Value = n
			} else {
				// Fractions and values outside int64 stay visible as stored.
				f.Value = nil
				f.raw = []string{v.String()}
			}
		case float64:
			if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
				f.Value = int64(v)
			} else {
				f.raw = []string{strconv.FormatFloat(v, 'f', -1, 64)}
				f.Value = nil
			}
		case int64:
			f.Value = v
		case int:
			f.Value = int64(v)
		case *int64:
			if v != nil {
				f.Value = *v
			} else {
				f.Value = nil
			}
		default:
			s := scalarString(v)
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				f.Value = n
			} else {
				f.Value = nil
				if s != "" {
					f.raw = []string{s}
				}
			}
		}

	default:
		f.Value = scalarString(data)
	}
}

// scalarString renders a decoded JSON value as text.
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(DateLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(DateLayout)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Display is the text to place in the input's value attribute.
func (f *Field) Display() string {
	if len(f.raw) > 0 && (len(f.Errors) > 0 || f.Value == nil) {
		return f.raw[0]
	}
	switch v := f.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(DateLayout)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "y"
		}
		return ""
	}
	return scalarString(f.Value)
}

// Selected reports whether value is currently chosen (choice kinds) or
// checked (boolean).
func (f *Field) Selected(value string) bool {
	switch v := f.Value.(type) {
	case string:
		return v == value
	case []string:
		return slices.Contains(v, value)
	case bool:
		return v
	}
	return false
}

// Strings returns the selected values of a multi-choice field.
func (f *Field) Strings() []string {
	v, _ := f.Value.([]string)
	return v
}

// Time returns the date value, or nil when empty.
func (f *Field) Time() *time.Time {
	if t, ok := f.Value.(time.Time); ok {
		return &t
	}
	return nil
}
