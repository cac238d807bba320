package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/ui"
	"github.com/lexdesk/lexdesk/internal/ui/pages"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")

	clients, err := h.clientService.Clients(search)
	if err != nil {
		fail(w, r, "failed to list clients", err)
		return
	}

	ui.Render(w, r, pages.ClientList(clients, search))
}

func (h *ClientHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	detail, err := h.clientService.Detail(id)
	if err != nil {
		fail(w, r, "failed to load client", err, "client_id", id)
		return
	}

	ui.Render(w, r, pages.ClientDetail(detail))
}

func (h *ClientHandler) New(w http.ResponseWriter, r *http.Request) {
	cf, err := h.clientService.NewForm(nil)
	if err != nil {
		fail(w, r, "failed to build client form", err)
		return
	}

	ui.Render(w, r, pages.ClientFormPage("New client", "/clients", cf))
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	cf, err := h.clientService.NewForm(nil)
	if err != nil {
		fail(w, r, "failed to build client form", err)
		return
	}
	bind(r, cf.Form)

	client, err := h.clientService.Create(cf)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.ClientFormPage("New client", "/clients", cf))
		return
	}
	if err != nil {
		fail(w, r, "failed to create client", err)
		return
	}

	slog.Info("client created", "client_id", client.ID)
	ui.Redirect(w, r, "/clients/"+client.ID)
}

func (h *ClientHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	client, err := h.clientService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load client", err, "client_id", id)
		return
	}

	cf, err := h.clientService.NewForm(client)
	if err != nil {
		fail(w, r, "failed to build client form", err, "client_id", id)
		return
	}

	ui.Render(w, r, pages.ClientFormPage("Edit client", "/clients/"+id, cf))
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	client, err := h.clientService.ByID(id)
	if err != nil {
		fail(w, r, "failed to load client", err, "client_id", id)
		return
	}

	cf, err := h.clientService.NewForm(client)
	if err != nil {
		fail(w, r, "failed to build client form", err, "client_id", id)
		return
	}
	bind(r, cf.Form)

	_, err = h.clientService.Update(id, cf)
	if errors.Is(err, service.ErrValidation) {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.ClientFormPage("Edit client", "/clients/"+id, cf))
		return
	}
	if err != nil {
		fail(w, r, "failed to update client", err, "client_id", id)
		return
	}

	ui.Redirect(w, r, "/clients/"+id)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.clientService.Delete(id)
	if err != nil {
		fail(w, r, "failed to delete client", err, "client_id", id)
		return
	}

	slog.Info("client deleted", "client_id", id)
	ui.Redirect(w, r, "/clients")
}
