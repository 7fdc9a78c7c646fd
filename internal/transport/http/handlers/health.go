package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/transport/http/response"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz runs every registered check and fails if any of them does.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	out := map[string]string{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			out[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		out[name] = "ok"
	}
	response.JSON(w, status, out)
}

// Options answers any OPTIONS request once the CORS layer has set its headers.
func Options(w http.ResponseWriter, r *http.Request) {
	response.Message(w, http.StatusOK, "CORS enabled")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	response.Message(w, http.StatusNotFound, "Not found")
}
