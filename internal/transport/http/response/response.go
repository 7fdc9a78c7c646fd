package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// ErrorBody is the wire error shape: {"message": "...", "error": "..."}.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Message: msg})
}

func Fail(w http.ResponseWriter, status int, msg, detail string) {
	JSON(w, status, ErrorBody{Message: msg, Error: detail})
}

// Err maps domain errors onto the wire contract. Anything that is not an
// AppError becomes a 500 carrying the error text.
func Err(w http.ResponseWriter, err error) {
	if err == nil {
		Fail(w, http.StatusInternalServerError, "Internal server error", "unknown error")
		return
	}

	var ae *domain.AppError
	if errors.As(err, &ae) {
		status := statusFromCode(ae.Code)
		if status == http.StatusInternalServerError {
			zlog.Error().Err(err).Msg("request failed")
			Fail(w, status, "Internal server error", ae.Error())
			return
		}
		Fail(w, status, ae.Message, detail(ae))
		return
	}

	zlog.Error().Err(err).Msg("unhandled error")
	Fail(w, http.StatusInternalServerError, "Internal server error", err.Error())
}

func statusFromCode(code domain.ErrCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case domain.CodeRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func detail(ae *domain.AppError) string {
	if ae.Err != nil {
		return ae.Err.Error()
	}
	for k, v := range ae.Meta {
		return k + ": " + v
	}
	return ""
}
