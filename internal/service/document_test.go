package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/doctype"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/render"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/testutil"
)

func createTemplate(t *testing.T, store *repository.Store, name, content string, updatedAt time.Time) *model.Template {
	t.Helper()

	tmpl := &model.Template{
		ID:        uuid.New().String(),
		Name:      name,
		Content:   content,
		Format:    model.TemplateFormatHTML,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	err := store.Templates.Create(tmpl)
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return tmpl
}

func readStored(t *testing.T, root, key string) string {
	t.Helper()

	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", key, err)
	}
	return string(b)
}

func TestGenerateForCase(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	client := testutil.CreateClient(t, env.store, "John Doe", "john@example.com")
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, client)

	result, err := env.documents.GenerateForCase(c.ID, []string{"notice_of_appearance"}, &model.User{Name: "A. Lawyer"})
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}
	if len(result.Failures) != 0 || len(result.Documents) != 1 {
		t.Fatalf("GenerateForCase() = %d documents, %v failures", len(result.Documents), result.Failures)
	}

	doc := result.Documents[0]
	wantName := fmt.Sprintf("CR-2024-001_notice_of_appearance_%d.html", testutil.Now.Unix())
	if doc.Filename != wantName {
		t.Errorf("Filename = %q, want %q", doc.Filename, wantName)
	}
	if doc.Filepath != testUploadDir+"/"+wantName {
		t.Errorf("Filepath = %q, want it relative under %s", doc.Filepath, testUploadDir)
	}
	if doc.DocType != "notice_of_appearance" || *doc.CaseID != c.ID || *doc.ClientID != client.ID {
		t.Errorf("document = %+v", doc)
	}

	content := readStored(t, env.root, doc.Filepath)
	for _, want := range []string{"State v. Doe", "CR-2024-001", "A. Lawyer", "2024-03-15"} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}

	stored, err := env.store.Documents.ByID(doc.ID)
	if err != nil {
		t.Fatalf("document row not committed: %v", err)
	}
	if stored.Filepath != doc.Filepath {
		t.Errorf("stored Filepath = %q, want %q", stored.Filepath, doc.Filepath)
	}
}

func TestGenerateTwiceKeepsBoth(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	first, err := env.documents.GenerateForCase(c.ID, []string{"blank_motion"}, nil)
	if err != nil {
		t.Fatalf("first GenerateForCase() error: %v", err)
	}
	second, err := env.documents.GenerateForCase(c.ID, []string{"blank_motion"}, nil)
	if err != nil {
		t.Fatalf("second GenerateForCase() error: %v", err)
	}

	a, b := first.Documents[0], second.Documents[0]
	if a.ID == b.ID || a.Filename == b.Filename {
		t.Fatalf("documents collide: %s and %s", a.Filename, b.Filename)
	}
	if !strings.HasSuffix(b.Filename, "-1.html") {
		t.Errorf("second Filename = %q, want a -1 suffix for the same second", b.Filename)
	}

	docs, err := env.store.Documents.ByCase(c.ID)
	if err != nil {
		t.Fatalf("ByCase() error: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d documents, want 2", len(docs))
	}
}

func TestOverrideTemplateUsedVerbatim(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)
	createTemplate(t, env.store, "Firm notice of appearance (criminal) v2", "<p>OVERRIDE {{ .Case.CaseNumber }}</p>", testutil.Now)

	result, err := env.documents.GenerateForCase(c.ID, []string{"notice_of_appearance"}, nil)
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}
	if len(result.Documents) != 1 {
		t.Fatalf("failures: %v", result.Failures)
	}

	if got := readStored(t, env.root, result.Documents[0].Filepath); got != "<p>OVERRIDE CR-2024-001</p>" {
		t.Errorf("content = %q", got)
	}
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)

	resolved, err := env.templates.Resolve("demand_for_discovery")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.Source != SourceDefault {
		t.Errorf("Source = %q, want default", resolved.Source)
	}

	resolved, err = env.templates.Resolve("motion_to_suppress")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.Source != SourcePlaceholder || resolved.Body != doctype.Placeholder {
		t.Errorf("Resolve(unknown) = %+v, want placeholder", resolved)
	}

	older := createTemplate(t, env.store, "Demand for Discovery (Criminal)", "old", testutil.Now.Add(-time.Hour))
	newer := createTemplate(t, env.store, "DEMAND FOR DISCOVERY (CRIMINAL) rev", "new", testutil.Now)

	resolved, err = env.templates.Resolve("demand_for_discovery")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.Source != SourceOverride || resolved.TemplateID != newer.ID {
		t.Errorf("Resolve() picked %q, want most recently updated %q (not %q)", resolved.TemplateID, newer.ID, older.ID)
	}
}

func TestResolveTieBreaksByID(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)

	a := createTemplate(t, env.store, "Motion", "a", testutil.Now)
	b := createTemplate(t, env.store, "Motion copy", "b", testutil.Now)
	want := a.ID
	if b.ID < a.ID {
		want = b.ID
	}

	for range 3 {
		resolved, err := env.templates.Resolve("motion")
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if resolved.TemplateID != want {
			t.Errorf("Resolve() = %q, want lowest id %q", resolved.TemplateID, want)
		}
	}
}

func TestBulkWithOneRenderError(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)
	createTemplate(t, env.store, "Demand for Discovery (Criminal)", "<p>{{ .Case.NoSuchField }}</p>", testutil.Now)

	slugs := []string{"notice_of_appearance", "demand_for_discovery", "written_plea_not_guilty"}
	result, err := env.documents.GenerateForCase(c.ID, slugs, &model.User{Name: "A. Lawyer"})
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}

	if len(result.Documents) != 2 {
		t.Errorf("got %d documents, want 2", len(result.Documents))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(result.Failures))
	}

	failure := result.Failures[0]
	if failure.Slug != "demand_for_discovery" {
		t.Errorf("failure slug = %q", failure.Slug)
	}
	var renderErr *render.Error
	if !errors.As(failure.Err, &renderErr) || renderErr.Stage != "execute" {
		t.Errorf("failure error = %v, want execute *render.Error", failure.Err)
	}

	docs, err := env.store.Documents.ByCase(c.ID)
	if err != nil {
		t.Fatalf("ByCase() error: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d stored documents, want 2", len(docs))
	}
}

func TestGenerateForCaseErrors(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	_, err := env.documents.GenerateForCase(c.ID, nil, nil)
	if !errors.Is(err, ErrNoDocTypes) {
		t.Errorf("no slugs error = %v, want ErrNoDocTypes", err)
	}

	_, err = env.documents.GenerateForCase("missing", []string{"blank_motion"}, nil)
	if !errors.Is(err, repository.ErrCaseNotFound) {
		t.Errorf("missing case error = %v, want ErrCaseNotFound", err)
	}

	result, err := env.documents.GenerateForCase(c.ID, []string{"not_a_type"}, nil)
	if err != nil {
		t.Fatalf("unknown slug error: %v", err)
	}
	if len(result.Documents) != 0 || len(result.Failures) != 1 || !errors.Is(result.Failures[0].Err, ErrUnknownDocType) {
		t.Errorf("unknown slug result = %+v", result)
	}
}

func TestGenerateFromTemplate(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "Estate of Roe", "PR-2024-007", model.CaseTypeEstate, nil)
	tmpl := createTemplate(t, env.store, "Engagement Letter", "<p>Re: {{ .Case.Style }}</p>", testutil.Now)

	doc, err := env.documents.GenerateFromTemplate(tmpl.ID, c.ID, "Roe engagement", nil)
	if err != nil {
		t.Fatalf("GenerateFromTemplate() error: %v", err)
	}
	if doc.Filename != "Roe_engagement.html" {
		t.Errorf("Filename = %q", doc.Filename)
	}
	if got := readStored(t, env.root, doc.Filepath); got != "<p>Re: Estate of Roe</p>" {
		t.Errorf("content = %q", got)
	}

	doc, err = env.documents.GenerateFromTemplate(tmpl.ID, c.ID, "", nil)
	if err != nil {
		t.Fatalf("GenerateFromTemplate() error: %v", err)
	}
	want := fmt.Sprintf("Engagement_Letter_PR-2024-007_%d.html", testutil.Now.Unix())
	if doc.Filename != want {
		t.Errorf("default Filename = %q, want %q", doc.Filename, want)
	}
}

func TestPreviewSlug(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)

	out, resolved, err := env.documents.PreviewSlug("motion_to_suppress", "", nil)
	if err != nil {
		t.Fatalf("PreviewSlug() error: %v", err)
	}
	if resolved.Source != SourcePlaceholder {
		t.Errorf("Source = %q", resolved.Source)
	}
	if out != "<p>Motion To Suppress for </p>" {
		t.Errorf("PreviewSlug() = %q", out)
	}

	docs, err := env.documents.Documents("")
	if err != nil {
		t.Fatalf("Documents() error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("preview saved %d documents", len(docs))
	}
}

func TestPreviewRejectsPathsOutsideUploads(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	err := os.WriteFile(filepath.Join(env.root, "secret.html"), []byte("secret"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"secret.html", testUploadDir + "/../../secret.html", "../secret.html", "/etc/passwd"} {
		doc := &model.Document{
			ID:         uuid.New().String(),
			Filename:   "x.html",
			Filepath:   key,
			CaseID:     &c.ID,
			UploadedAt: testutil.Now,
		}
		err := env.store.Documents.Create(doc)
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		_, content, err := env.documents.Preview(doc.ID)
		if !errors.Is(err, ErrForbiddenPath) {
			t.Errorf("Preview(%q) error = %v, want ErrForbiddenPath", key, err)
		}
		if content != nil {
			t.Errorf("Preview(%q) returned content", key)
		}
	}
}

func TestPreviewMarksViewed(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	result, err := env.documents.GenerateForCase(c.ID, []string{"blank_motion"}, nil)
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}
	doc := result.Documents[0]

	got, content, err := env.documents.Preview(doc.ID)
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if !bytes.Contains(content, []byte("State v. Doe")) {
		t.Errorf("Preview() content = %q", content)
	}
	if got.LastViewedAt == nil || !got.LastViewedAt.Equal(testutil.Now) {
		t.Errorf("LastViewedAt = %v", got.LastViewedAt)
	}

	err = os.Remove(filepath.Join(env.root, filepath.FromSlash(doc.Filepath)))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = env.documents.Preview(doc.ID)
	if !errors.Is(err, ErrDocumentFile) {
		t.Errorf("Preview(missing file) error = %v, want ErrDocumentFile", err)
	}
}

func TestPDFBytes(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	result, err := env.documents.GenerateForCase(c.ID, []string{"notice_of_appearance"}, nil)
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}

	_, pdf, err := env.documents.PDFBytes(result.Documents[0].ID)
	if err != nil {
		t.Fatalf("PDFBytes() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("PDFBytes() is not a PDF")
	}
}

func TestSend(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	client := testutil.CreateClient(t, env.store, "John Doe", "john@example.com")
	withClient := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, client)
	withoutClient := testutil.CreateCase(t, env.store, "State v. Roe", "CR-2024-002", model.CaseTypeCriminal, nil)

	result, err := env.documents.GenerateForCase(withClient.ID, []string{"blank_motion"}, nil)
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}
	_, to, err := env.documents.Send(t.Context(), result.Documents[0].ID)
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if to != "john@example.com" {
		t.Errorf("Send() recipient = %q", to)
	}

	result, err = env.documents.GenerateForCase(withoutClient.ID, []string{"blank_motion"}, nil)
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}
	_, _, err = env.documents.Send(t.Context(), result.Documents[0].ID)
	if !errors.Is(err, ErrNoRecipient) {
		t.Errorf("Send(no client) error = %v, want ErrNoRecipient", err)
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	result, err := env.documents.GenerateForCase(c.ID, []string{"blank_motion"}, nil)
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}
	doc := result.Documents[0]

	err = env.documents.Delete(doc.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := env.store.Documents.ByID(doc.ID); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Errorf("row still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.root, filepath.FromSlash(doc.Filepath))); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
}

func TestReconcile(t *testing.T) {
	env := newTestEnv(t, nil)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	result, err := env.documents.GenerateForCase(c.ID, []string{"blank_motion"}, nil)
	if err != nil {
		t.Fatalf("GenerateForCase() error: %v", err)
	}
	kept := result.Documents[0].Filepath

	oldOrphan := testUploadDir + "/old_orphan.html"
	newOrphan := testUploadDir + "/new_orphan.html"
	for _, key := range []string{oldOrphan, newOrphan} {
		err := env.files.Create(key, []byte("orphan"))
		if err != nil {
			t.Fatalf("Create(%s) error: %v", key, err)
		}
	}

	// Age everything but the fresh orphan past the grace period.
	past := time.Now().Add(-2 * time.Hour)
	for _, key := range []string{kept, oldOrphan} {
		err := os.Chtimes(filepath.Join(env.root, filepath.FromSlash(key)), past, past)
		if err != nil {
			t.Fatal(err)
		}
	}

	report, err := env.documents.Reconcile(time.Hour, true)
	if err != nil {
		t.Fatalf("Reconcile(dry run) error: %v", err)
	}
	if report.Checked != 3 || report.Recent != 1 || len(report.Orphans) != 1 || len(report.Removed) != 0 {
		t.Fatalf("dry run report = %+v", report)
	}
	if report.Orphans[0] != oldOrphan {
		t.Errorf("orphan = %q, want %q", report.Orphans[0], oldOrphan)
	}

	report, err = env.documents.Reconcile(time.Hour, false)
	if err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	if len(report.Removed) != 1 || report.Removed[0] != oldOrphan {
		t.Errorf("Removed = %v", report.Removed)
	}

	for key, want := range map[string]bool{kept: true, newOrphan: true, oldOrphan: false} {
		_, err := os.Stat(filepath.Join(env.root, filepath.FromSlash(key)))
		if exists := err == nil; exists != want {
			t.Errorf("%s exists = %v, want %v", key, exists, want)
		}
	}
}

func countDocumentRows(t *testing.T, env *testEnv) int {
	t.Helper()

	var n int
	err := env.db.Get(&n, "SELECT COUNT(*) FROM documents")
	if err != nil {
		t.Fatalf("failed to count documents: %v", err)
	}
	return n
}

func uploadedFiles(t *testing.T, env *testEnv) []string {
	t.Helper()

	entries, err := os.ReadDir(filepath.Join(env.root, filepath.FromSlash(testUploadDir)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read upload dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestGenerateForCaseCommitFailureRollsBack(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	// The first insert succeeds, the second aborts the transaction.
	_, err := env.db.Exec(`CREATE TRIGGER reject_second_document BEFORE INSERT ON documents
		WHEN (SELECT COUNT(*) FROM documents) >= 1
		BEGIN SELECT RAISE(ABORT, 'document rejected'); END`)
	if err != nil {
		t.Fatalf("failed to create trigger: %v", err)
	}

	slugs := []string{"notice_of_appearance", "written_plea_not_guilty"}
	result, err := env.documents.GenerateForCase(c.ID, slugs, &model.User{Name: "A. Lawyer"})
	if !errors.Is(err, ErrBatchCommit) {
		t.Fatalf("GenerateForCase() error = %v, want ErrBatchCommit", err)
	}
	if result == nil || len(result.Documents) != 0 {
		t.Errorf("result = %+v, want no committed documents", result)
	}

	if n := countDocumentRows(t, env); n != 0 {
		t.Errorf("got %d document rows, want 0 after rollback", n)
	}
	// Written files stay behind for reconcile.
	if files := uploadedFiles(t, env); len(files) != len(slugs) {
		t.Errorf("files on disk = %v, want %d orphans", files, len(slugs))
	}
}

func TestGenerateForCaseWriteFailureIsPerSlug(t *testing.T) {
	env := newTestEnv(t, testutil.Clock)
	c := testutil.CreateCase(t, env.store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	// A plain file where the upload directory should be makes every write fail.
	uploads := filepath.Join(env.root, filepath.FromSlash(testUploadDir))
	if err := os.MkdirAll(filepath.Dir(uploads), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(uploads, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	slugs := []string{"notice_of_appearance", "written_plea_not_guilty"}
	result, err := env.documents.GenerateForCase(c.ID, slugs, &model.User{Name: "A. Lawyer"})
	if err != nil {
		t.Fatalf("GenerateForCase() error = %v, want per-slug failures only", err)
	}
	if len(result.Documents) != 0 {
		t.Errorf("got %d documents, want 0", len(result.Documents))
	}
	if len(result.Failures) != len(slugs) {
		t.Fatalf("got %d failures, want %d", len(result.Failures), len(slugs))
	}
	for i, f := range result.Failures {
		if f.Slug != slugs[i] || f.Err == nil {
			t.Errorf("failure %d = %+v", i, f)
		}
	}
	if n := countDocumentRows(t, env); n != 0 {
		t.Errorf("got %d document rows, want 0", n)
	}
}
