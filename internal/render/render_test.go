package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lexdesk/lexdesk/internal/markdown"
	"github.com/lexdesk/lexdesk/internal/model"
)

var now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func testCase() *model.Case {
	filed := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	return &model.Case{Style: "State v. Doe", CaseNumber: "CR-2024-001", FiledDate: &filed}
}

func TestRenderHTML(t *testing.T) {
	r := New(markdown.NewParser())
	data := NewContext(testCase(), nil, &model.User{Name: "A. Lawyer"}, now)

	out, err := r.Render(`<p>{{ .Case.Style }} / {{ .Case.CaseNumber }} / {{ date .Case.FiledDate }} / {{ .Today }} / {{ .User.Name }} / {{ default "none" .Client.Name }}</p>`, model.TemplateFormatHTML, data)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := "<p>State v. Doe / CR-2024-001 / January 9, 2024 / 2024-03-15 / A. Lawyer / none</p>"
	if out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	r := New(markdown.NewParser())
	c := testCase()
	c.Style = `<script>alert(1)</script>`

	out, err := r.Render(`<p>{{ .Case.Style }}</p>`, model.TemplateFormatHTML, NewContext(c, nil, nil, now))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("Render() did not escape: %q", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := New(markdown.NewParser())
	body := "---\ntitle: Engagement\n---\n# {{ .Case.Style }}\n\nCase {{ .Case.CaseNumber }}\n"

	out, err := r.Render(body, model.TemplateFormatMarkdown, NewContext(testCase(), nil, nil, now))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, want := range []string{"<title>Engagement</title>", "State v. Doe</h1>", "CR-2024-001"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in %q", want, out)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	r := New(markdown.NewParser())
	data := NewContext(testCase(), nil, nil, now)

	tests := []struct {
		name  string
		body  string
		stage string
	}{
		{"unclosed action", `{{ .Case.Style `, "parse"},
		{"unknown function", `{{ nope .Case }}`, "parse"},
		{"missing field", `{{ .Case.Nope }}`, "execute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(tt.body, model.TemplateFormatHTML, data)
			var renderErr *Error
			if !errors.As(err, &renderErr) {
				t.Fatalf("Render() error = %v, want *Error", err)
			}
			if renderErr.Stage != tt.stage {
				t.Errorf("Stage = %q, want %q", renderErr.Stage, tt.stage)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if err := Check(`{{ .Case.Style }}`, model.TemplateFormatHTML); err != nil {
		t.Errorf("Check(valid) = %v", err)
	}
	if err := Check(`{{ if }}`, model.TemplateFormatMarkdown); err == nil {
		t.Error("Check(invalid) = nil")
	}
}

func TestNewContextFillsNil(t *testing.T) {
	data := NewContext(nil, nil, nil, now)
	if data.Case == nil || data.Client == nil || data.User == nil || data.Custom == nil {
		t.Errorf("NewContext left nil values: %+v", data)
	}
}
