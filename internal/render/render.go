// Package render executes document templates against case data.
package render

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/lexdesk/lexdesk/internal/markdown"
	"github.com/lexdesk/lexdesk/internal/model"
)

const (
	TodayLayout = "2006-01-02"
	dateLayout  = "January 2, 2006"
)

// Context is the data a document template sees.
type Context struct {
	Case   *model.Case
	Client *model.Client
	User   *model.User
	Today  string
	Now    time.Time
	Slug   string
	Label  string
	Custom map[string]any
}

// NewContext builds a render context. Client and User may be nil; they are
// replaced with empty values so templates can reference their fields
// without guarding.
func NewContext(c *model.Case, client *model.Client, user *model.User, now time.Time) Context {
	if c == nil {
		c = &model.Case{}
	}
	if client == nil {
		client = &model.Client{}
	}
	if user == nil {
		user = &model.User{}
	}
	now = now.UTC()
	return Context{
		Case:   c,
		Client: client,
		User:   user,
		Today:  now.Format(TodayLayout),
		Now:    now,
		Custom: map[string]any{},
	}
}

// Error reports a template that failed to parse or execute.
type Error struct {
	Stage string // "parse", "execute" or "markdown"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("template %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Renderer struct {
	md *markdown.Parser
}

func New(md *markdown.Parser) *Renderer {
	return &Renderer{md: md}
}

var funcs = map[string]any{
	"date":    formatDate,
	"default": defaultValue,
	"join":    strings.Join,
	"upper":   strings.ToUpper,
}

// Render executes body in the given format ("html" or "markdown").
// HTML bodies are executed with contextual escaping. Markdown bodies are
// executed as text, then converted to HTML.
func (r *Renderer) Render(body, format string, data Context) (out string, err error) {
	// text/template recovers most runtime panics; this covers the rest.
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", &Error{Stage: "execute", Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	if format == model.TemplateFormatMarkdown {
		return r.renderMarkdown(body, data)
	}
	return renderHTML(body, data)
}

// Check parses body without executing it.
func Check(body, format string) error {
	var err error
	if format == model.TemplateFormatMarkdown {
		_, err = texttemplate.New("document").Funcs(funcs).Parse(body)
	} else {
		_, err = htmltemplate.New("document").Funcs(funcs).Parse(body)
	}
	if err != nil {
		return &Error{Stage: "parse", Err: err}
	}
	return nil
}

func renderHTML(body string, data Context) (string, error) {
	tmpl, err := htmltemplate.New("document").Funcs(funcs).Parse(body)
	if err != nil {
		return "", &Error{Stage: "parse", Err: err}
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", &Error{Stage: "execute", Err: err}
	}

	return buf.String(), nil
}

func (r *Renderer) renderMarkdown(body string, data Context) (string, error) {
	tmpl, err := texttemplate.New("document").Funcs(funcs).Parse(body)
	if err != nil {
		return "", &Error{Stage: "parse", Err: err}
	}

	var src bytes.Buffer
	err = tmpl.Execute(&src, data)
	if err != nil {
		return "", &Error{Stage: "execute", Err: err}
	}

	content, meta, err := r.md.ParseWithFrontmatter(src.Bytes())
	if err != nil {
		return "", &Error{Stage: "markdown", Err: err}
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = data.Label
	}

	var doc strings.Builder
	doc.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>")
	doc.WriteString(html.EscapeString(title))
	doc.WriteString("</title></head>\n<body>\n")
	doc.Write(content)
	doc.WriteString("</body></html>\n")
	return doc.String(), nil
}

// formatDate formats time values as "January 2, 2006". An optional layout
// overrides the default. Nil and zero times format as "".
func formatDate(v any, layout ...string) string {
	l := dateLayout
	if len(layout) > 0 && layout[0] != "" {
		l = layout[0]
	}

	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(l)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(l)
	case string:
		return t
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// defaultValue returns def when v is empty.
func defaultValue(def any, v any) any {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(x) == "" {
			return def
		}
	case *time.Time:
		if x == nil {
			return def
		}
	}
	return v
}
