package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/alchies-rsvp/internal/application/event"
	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/baechuer/alchies-rsvp/internal/transport/http/response"
)

const maxEventBody = 1 << 20

type EventsHandler struct {
	svc *event.Service
}

func NewEventsHandler(svc *event.Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		response.Err(w, err)
		return
	}
	response.JSON(w, http.StatusOK, events)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// Create accepts any event-shaped body. Unknown fields such as a client-side
// id are ignored.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d domain.Draft
	if !decodeBody(w, r, &d) {
		return
	}
	e, err := h.svc.Create(r.Context(), d)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, e)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p domain.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	e, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// Delete archives by default; ?permanent=true removes the event.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("permanent") == "true" {
		if err := h.svc.Delete(r.Context(), id); err != nil {
			response.Err(w, err)
			return
		}
		response.Message(w, http.StatusOK, "Event permanently deleted")
		return
	}

	if err := h.svc.Archive(r.Context(), id); err != nil {
		response.Err(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Event archived successfully")
}

// decodeBody writes the 500 the wire contract uses for unreadable bodies.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxEventBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		response.Fail(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return false
	}
	return true
}
