package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/worldos/console/internal/domain/project"
	"github.com/worldos/console/internal/store"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Path   string `json:"path,omitempty"`
}

// StatusResponse is returned by health and delete endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps domain and storage errors to HTTP responses.
func statusFor(err error) (int, ErrorResponse) {
	var verr *project.ValidationError
	switch {
	case errors.As(err, &verr) && !errors.Is(err, store.ErrCorruptStorage):
		return http.StatusUnprocessableEntity, ErrorResponse{Detail: verr.Error(), Path: verr.Path}
	case errors.Is(err, project.ErrIDMismatch):
		return http.StatusBadRequest, ErrorResponse{Detail: "Project ID mismatch"}
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound, ErrorResponse{Detail: "Project not found"}
	case errors.Is(err, store.ErrCorruptStorage):
		return http.StatusInternalServerError, ErrorResponse{Detail: "Project storage is corrupt"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"}
	}
}
