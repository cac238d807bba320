package field

import (
	"context"
	"strings"
	"testing"

	"github.com/lexdesk/lexdesk/internal/ctxkeys"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
)

func render(t *testing.T, ctx context.Context, f *form.Form) string {
	t.Helper()

	var b strings.Builder
	if err := Form("/cases", "Save", f).Render(ctx, &b); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return b.String()
}

func TestFormEscapesValues(t *testing.T) {
	f := form.New(form.Text("style", "Style"))
	f.Field("style").Set(`<script>alert("x")</script>`)

	html := render(t, context.Background(), f)
	if strings.Contains(html, "<script>") {
		t.Errorf("value not escaped: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("escaped value missing: %s", html)
	}
}

func TestFormMarksSelections(t *testing.T) {
	statuses := []model.Choice{{Value: "open", Label: "Open"}, {Value: "closed", Label: "Closed"}}
	f := form.New(
		form.Boolean("urgent", "Urgent"),
		form.Select("status", "Status", statuses),
	)
	f.Field("urgent").Set(true)
	f.Field("status").Set("closed")

	html := render(t, context.Background(), f)
	if !strings.Contains(html, `value="y" checked`) {
		t.Errorf("boolean not checked: %s", html)
	}
	if !strings.Contains(html, `<option value="closed" selected>Closed</option>`) {
		t.Errorf("choice not selected: %s", html)
	}
	if strings.Contains(html, `<option value="open" selected>`) {
		t.Error("unselected choice marked selected")
	}
}

func TestFormShowsErrorsAndToken(t *testing.T) {
	f := form.New(form.Text("name", "Name"))
	f.AddError("name", "This field is required.")
	f.AddError("", "Could not save.")

	ctx := ctxkeys.WithCSRFToken(context.Background(), "tok123")
	html := render(t, ctx, f)

	for _, want := range []string{
		`name="csrf_token" value="tok123"`,
		"field-invalid",
		"border-red-500",
		"This field is required.",
		"Could not save.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
