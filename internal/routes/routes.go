package routes

import (
	"io/fs"
	"net/http"

	"github.com/lexdesk/lexdesk/assets"
	"github.com/lexdesk/lexdesk/internal/app"
	"github.com/lexdesk/lexdesk/internal/handler"
	"github.com/lexdesk/lexdesk/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.CaseService, app.CalendarService, app.DocumentService)
	cases := handler.NewCaseHandler(app.CaseService, app.NoteService, app.DocumentService)
	clients := handler.NewClientHandler(app.ClientService)
	documents := handler.NewDocumentHandler(app.DocumentService, app.TemplateService)
	templates := handler.NewTemplateHandler(app.TemplateService)
	customFields := handler.NewCustomFieldHandler(app.CustomFieldService)
	calendar := handler.NewCalendarHandler(app.CalendarService)
	notes := handler.NewNoteHandler(app.NoteService)
	people := handler.NewPersonHandler(app.PersonService)

	mux := http.NewServeMux()

	// ============================================================================
	// STATIC
	// ============================================================================

	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))
	mux.HandleFunc("GET /healthz", home.Healthz)

	// Stored files (local storage URLs)
	mux.HandleFunc("GET /files/{path...}", documents.File)

	// ============================================================================
	// DASHBOARD
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.Dashboard)

	// Document generation is rate limited per IP
	limit := middleware.RateLimit(app.Cfg.GenerateRateLimit, app.Cfg.GenerateRateWindow)

	// ============================================================================
	// CASES
	// ============================================================================

	mux.HandleFunc("GET /cases", cases.List)
	mux.HandleFunc("GET /cases/new", cases.New)
	mux.HandleFunc("POST /cases", cases.Create)
	mux.HandleFunc("GET /cases/{id}", cases.Detail)
	mux.HandleFunc("GET /cases/{id}/edit", cases.Edit)
	mux.HandleFunc("POST /cases/{id}", cases.Update)
	mux.HandleFunc("POST /cases/{id}/delete", cases.Delete)
	mux.HandleFunc("GET /cases/{id}/generate", cases.GeneratePage)
	mux.HandleFunc("POST /cases/{id}/generate", limit(cases.Generate))
	mux.HandleFunc("POST /cases/{id}/notes", notes.Create)

	// Notes
	mux.HandleFunc("POST /notes/{id}/delete", notes.Delete)

	// ============================================================================
	// CLIENTS
	// ============================================================================

	mux.HandleFunc("GET /clients", clients.List)
	mux.HandleFunc("GET /clients/new", clients.New)
	mux.HandleFunc("POST /clients", clients.Create)
	mux.HandleFunc("GET /clients/{id}", clients.Detail)
	mux.HandleFunc("GET /clients/{id}/edit", clients.Edit)
	mux.HandleFunc("POST /clients/{id}", clients.Update)
	mux.HandleFunc("POST /clients/{id}/delete", clients.Delete)

	// People directory
	mux.HandleFunc("GET /people", people.List)
	mux.HandleFunc("GET /people/new", people.New)
	mux.HandleFunc("POST /people", people.Create)
	mux.HandleFunc("GET /people/{id}/edit", people.Edit)
	mux.HandleFunc("POST /people/{id}", people.Update)
	mux.HandleFunc("POST /people/{id}/delete", people.Delete)

	// ============================================================================
	// DOCUMENTS
	// ============================================================================

	mux.HandleFunc("GET /documents", documents.List)
	mux.HandleFunc("GET /documents/bulk", documents.BulkPage)
	mux.HandleFunc("POST /documents/bulk", limit(documents.Bulk))
	mux.HandleFunc("GET /documents/generate", documents.FromTemplatePage)
	mux.HandleFunc("POST /documents/generate", limit(documents.FromTemplate))
	mux.HandleFunc("GET /documents/{id}", documents.Detail)
	mux.HandleFunc("GET /documents/{id}/preview", documents.Preview)
	mux.HandleFunc("GET /documents/{id}/pdf", documents.PDF)
	mux.HandleFunc("POST /documents/{id}/send", documents.Send)
	mux.HandleFunc("POST /documents/{id}/delete", documents.Delete)

	// Templates
	mux.HandleFunc("GET /documents/templates", templates.List)
	mux.HandleFunc("GET /documents/templates/new", templates.New)
	mux.HandleFunc("POST /documents/templates", templates.Create)
	mux.HandleFunc("GET /documents/templates/{id}/edit", templates.Edit)
	mux.HandleFunc("POST /documents/templates/{id}/edit", templates.Update)
	mux.HandleFunc("POST /documents/templates/{id}/delete", templates.Delete)
	mux.HandleFunc("GET /documents/types/{slug}/preview", documents.PreviewSlug)

	// ============================================================================
	// CALENDAR
	// ============================================================================

	mux.HandleFunc("GET /calendar", calendar.List)
	mux.HandleFunc("GET /calendar/new", calendar.New)
	mux.HandleFunc("POST /calendar", calendar.Create)
	mux.HandleFunc("GET /calendar/{id}/edit", calendar.Edit)
	mux.HandleFunc("POST /calendar/{id}", calendar.Update)
	mux.HandleFunc("POST /calendar/{id}/complete", calendar.Complete)
	mux.HandleFunc("POST /calendar/{id}/delete", calendar.Delete)

	// ============================================================================
	// ADMIN
	// ============================================================================

	mux.HandleFunc("GET /admin/custom-fields", customFields.List)
	mux.HandleFunc("GET /admin/custom-fields/new", customFields.New)
	mux.HandleFunc("POST /admin/custom-fields", customFields.Create)
	mux.HandleFunc("GET /admin/custom-fields/{id}/edit", customFields.Edit)
	mux.HandleFunc("POST /admin/custom-fields/{id}", customFields.Update)
	mux.HandleFunc("POST /admin/custom-fields/{id}/toggle", customFields.Toggle)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),  // Config must be first (needed by SecurityHeaders for S3 endpoint)
		middleware.NonceMiddleware,  // Must be before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.ActingUser(app.UserService, app.Cfg.TrustedUserHeader),
		middleware.WithURLPath,
	)

	return handler
}
