package project

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrIDMismatch indicates the addressed id differs from the id in the body.
	ErrIDMismatch = errors.New("project id mismatch")
)

// ValidationError reports a schema violation at a field path such as
// "tiers.T2_modules[0].name". Path is empty when the document as a whole is
// unusable.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid project: %s", e.Reason)
	}
	return fmt.Sprintf("invalid project: %s: %s", e.Path, e.Reason)
}

// Is lets callers match any ValidationError against ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
