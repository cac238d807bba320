package handler

import (
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

const dashboardDocuments = 10

type HomeHandler struct {
	caseService     *service.CaseService
	calendarService *service.CalendarService
	documentService *service.DocumentService
}

func NewHomeHandler(caseService *service.CaseService, calendarService *service.CalendarService, documentService *service.DocumentService) *HomeHandler {
	return &HomeHandler{
		caseService:     caseService,
		calendarService: calendarService,
		documentService: documentService,
	}
}

func (h *HomeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	cases, err := h.caseService.Cases("")
	if err != nil {
		fail(w, r, "failed to load cases", err)
		return
	}

	var data pages.DashboardData
	for _, c := range cases {
		if c.Status == model.CaseStatusOpen {
			data.OpenCases = append(data.OpenCases, c)
		}
	}

	data.Upcoming, err = h.calendarService.Upcoming()
	if err != nil {
		fail(w, r, "failed to load events", err)
		return
	}

	recent, err := h.documentService.Documents(model.DocumentSortRecentlyAdded)
	if err != nil {
		fail(w, r, "failed to load documents", err)
		return
	}
	if len(recent) > dashboardDocuments {
		recent = recent[:dashboardDocuments]
	}
	data.Recent = recent

	ui.Render(w, r, pages.Dashboard(data))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	notFound(w, r)
}

func (h *HomeHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write([]byte("ok"))
	if err != nil {
		slog.Debug("healthz write failed", "error", err)
	}
}
