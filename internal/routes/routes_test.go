package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/app"
	"github.com/lexdesk/lexdesk/internal/config"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/testutil"
)

// csrfToken has the length of a generated token so the middleware keeps it.
var csrfToken = strings.Repeat("t", 43)

type testServer struct {
	app     *app.App
	handler http.Handler
	root    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	files, root := testutil.NewStorage(t)
	cfg := &config.Config{
		AppName:            "Lexdesk",
		AppEnv:             "development",
		AppURL:             "http://localhost:8090",
		RootDir:            root,
		UploadDir:          "uploads/documents",
		GenerateRateLimit:  100,
		GenerateRateWindow: time.Minute,
	}

	a := app.Wire(cfg, testutil.NewDB(t), files)
	return &testServer{app: a, handler: SetupRoutes(a), root: root}
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (s *testServer) post(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", csrfToken)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: csrfToken})

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/healthz")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestPages(t *testing.T) {
	s := newTestServer(t)
	c := testutil.CreateCase(t, s.app.Store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	for _, path := range []string{
		"/",
		"/cases",
		"/cases/" + c.ID,
		"/cases/" + c.ID + "/generate",
		"/clients",
		"/documents",
		"/documents/bulk",
		"/documents/templates",
		"/calendar",
		"/calendar/new",
		"/people",
		"/people/new",
		"/admin/custom-fields",
	} {
		rec := s.get(t, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}

	if rec := s.get(t, "/cases/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("GET missing case = %d, want 404", rec.Code)
	}
	if rec := s.get(t, "/no/such/page"); rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown path = %d, want 404", rec.Code)
	}
}

func TestPreviewOutsideUploadDir(t *testing.T) {
	s := newTestServer(t)
	c := testutil.CreateCase(t, s.app.Store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	err := os.WriteFile(filepath.Join(s.root, "secret.html"), []byte("secret"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	doc := &model.Document{
		ID:         uuid.New().String(),
		Filename:   "secret.html",
		Filepath:   "uploads/documents/../../secret.html",
		CaseID:     &c.ID,
		UploadedAt: testutil.Now,
	}
	err = s.app.Store.Documents.Create(doc)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	rec := s.get(t, "/documents/"+doc.ID+"/preview")
	if rec.Code != http.StatusForbidden {
		t.Errorf("preview = %d, want 403", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Error("preview leaked file content")
	}

	rec = s.get(t, "/files/secret.html")
	if rec.Code != http.StatusForbidden {
		t.Errorf("GET /files/secret.html = %d, want 403", rec.Code)
	}
}

func TestGenerateAndPreview(t *testing.T) {
	s := newTestServer(t)
	c := testutil.CreateCase(t, s.app.Store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	rec := s.post(t, "/cases/"+c.ID+"/generate", url.Values{
		"doc_types": {"notice_of_appearance", "bogus_type"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST generate = %d: %s", rec.Code, rec.Body.String())
	}

	docs, err := s.app.Store.Documents.ByCase(c.ID)
	if err != nil {
		t.Fatalf("ByCase() error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if !strings.Contains(rec.Body.String(), docs[0].Filename) {
		t.Error("result page does not list the generated file")
	}

	rec = s.get(t, "/documents/"+docs[0].ID+"/preview")
	if rec.Code != http.StatusOK {
		t.Fatalf("preview = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CR-2024-001") {
		t.Error("preview missing case number")
	}
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.HasPrefix(csp, "sandbox") {
		t.Errorf("preview CSP = %q, want sandbox", csp)
	}

	rec = s.get(t, "/files/"+docs[0].Filepath)
	if rec.Code != http.StatusOK {
		t.Errorf("GET stored file = %d", rec.Code)
	}
}

func TestGenerateRequiresSelection(t *testing.T) {
	s := newTestServer(t)
	c := testutil.CreateCase(t, s.app.Store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	rec := s.post(t, "/cases/"+c.ID+"/generate", url.Values{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST generate without types = %d, want 422", rec.Code)
	}
}

func TestPostWithoutCSRFToken(t *testing.T) {
	s := newTestServer(t)
	c := testutil.CreateCase(t, s.app.Store, "State v. Doe", "CR-2024-001", model.CaseTypeCriminal, nil)

	req := httptest.NewRequest(http.MethodPost, "/cases/"+c.ID+"/generate", strings.NewReader("doc_types=blank_motion"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("POST without token = %d, want 403", rec.Code)
	}
}

func TestPreviewSlug(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/documents/types/motion_to_suppress/preview")
	if rec.Code != http.StatusOK {
		t.Fatalf("slug preview = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Template-Source"); got != "placeholder" {
		t.Errorf("X-Template-Source = %q", got)
	}
	if !strings.Contains(rec.Body.String(), "Motion To Suppress") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestPeopleDirectory(t *testing.T) {
	s := newTestServer(t)

	rec := s.post(t, "/people", url.Values{
		"name":  {"Jane Roe"},
		"email": {"jane@example.com"},
		"phone": {"555-0100"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /people = %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.post(t, "/people", url.Values{"name": {"Other Roe"}, "email": {"jane@example.com"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST duplicate email = %d, want 422", rec.Code)
	}

	rec = s.get(t, "/people?q=roe")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /people = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Jane Roe") || !strings.Contains(body, "555-0100") {
		t.Errorf("directory does not list the new person: %s", body)
	}

	people, err := s.app.PersonService.People("")
	if err != nil || len(people) != 1 {
		t.Fatalf("People() = %d, %v; want 1 person", len(people), err)
	}
	id := people[0].ID

	rec = s.get(t, "/people/"+id+"/edit")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "jane@example.com") {
		t.Errorf("GET edit = %d", rec.Code)
	}

	rec = s.post(t, "/people/"+id, url.Values{"name": {"Jane Roe-Smith"}, "email": {""}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST update = %d: %s", rec.Code, rec.Body.String())
	}
	updated, err := s.app.PersonService.ByID(id)
	if err != nil {
		t.Fatalf("ByID() error: %v", err)
	}
	if updated.Name != "Jane Roe-Smith" || updated.Email != nil {
		t.Errorf("updated = %q %v, want name changed and email cleared", updated.Name, updated.Email)
	}

	rec = s.post(t, "/people/"+id+"/delete", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Errorf("POST delete = %d", rec.Code)
	}
	if rec := s.get(t, "/people/"+id+"/edit"); rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted person = %d, want 404", rec.Code)
	}
}

func TestEditCalendarEvent(t *testing.T) {
	s := newTestServer(t)

	f, err := s.app.CalendarService.EventForm("")
	if err != nil {
		t.Fatalf("EventForm() error: %v", err)
	}
	f.Bind(url.Values{"name": {"Status conference"}, "date": {"2099-01-15"}, "time": {"09:00"}})
	event, err := s.app.CalendarService.Create(f, nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	rec := s.get(t, "/calendar")
	if !strings.Contains(rec.Body.String(), "/calendar/"+event.ID+"/edit") {
		t.Error("calendar does not link to the edit page")
	}

	rec = s.get(t, "/calendar/"+event.ID+"/edit")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Status conference") {
		t.Fatalf("GET edit = %d", rec.Code)
	}

	rec = s.post(t, "/calendar/"+event.ID, url.Values{"name": {""}, "date": {"2099-01-15"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST without name = %d, want 422", rec.Code)
	}

	rec = s.post(t, "/calendar/"+event.ID, url.Values{"name": {"Pretrial conference"}, "date": {"2099-01-16"}, "time": {"10:15"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST update = %d: %s", rec.Code, rec.Body.String())
	}
	updated, err := s.app.CalendarService.ByID(event.ID)
	if err != nil {
		t.Fatalf("ByID() error: %v", err)
	}
	want := time.Date(2099, 1, 16, 10, 15, 0, 0, time.UTC)
	if updated.Name != "Pretrial conference" || !updated.StartsAt.Equal(want) {
		t.Errorf("updated = %q at %v, want %q at %v", updated.Name, updated.StartsAt, "Pretrial conference", want)
	}

	if rec := s.get(t, "/calendar/missing/edit"); rec.Code != http.StatusNotFound {
		t.Errorf("GET missing event = %d, want 404", rec.Code)
	}
}
