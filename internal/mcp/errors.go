package mcp

import (
	"errors"
	"fmt"

	"github.com/worldos/console/internal/domain/project"
	"github.com/worldos/console/internal/store"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Path         string `json:"path,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain and storage errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var verr *project.ValidationError
	switch {
	case errors.Is(err, store.ErrCorruptStorage):
		return &APIError{Code: "CORRUPT_STORAGE", Message: "project storage is corrupt", RecoveryHint: "Repair or restore the backing document"}
	case errors.As(err, &verr):
		return &APIError{Code: "INVALID_INPUT", Message: verr.Error(), Path: verr.Path, RecoveryHint: "Fix the field at path and retry"}
	case errors.Is(err, project.ErrIDMismatch):
		return &APIError{Code: "ID_MISMATCH", Message: "project id does not match the id argument", RecoveryHint: "Use the same id in both places"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to see existing ids"}
	default:
		return &APIError{Code: "INTERNAL", Message: "internal error"}
	}
}
