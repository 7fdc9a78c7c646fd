package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/baechuer/alchies-rsvp/internal/application/event"
	"github.com/baechuer/alchies-rsvp/internal/transport/http/response"
)

// base64 of a 10MB image plus the data-url prefix.
const maxUploadBody = 14 << 20

type UploadHandler struct {
	svc *event.Service
}

func NewUploadHandler(svc *event.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type uploadReq struct {
	Image string `json:"image"`
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBody)).Decode(&req); err != nil {
		response.Fail(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, h.svc.Upload(r.Context(), req.Image))
}
