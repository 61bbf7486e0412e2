package apperrors

import (
	"errors"
	"fmt"
)

const (
	ErrNotFound          = "NOT FOUND"
	ErrInvalidInput      = "INVALID INPUT"
	ErrAuth              = "UNAUTHORIZED"
	ErrAccessDenied      = "ACCESS DENIED"
	ErrConflict          = "CONFLICT"
	ErrPrecondition      = "PRECONDITION FAILED"
	ErrInvalidCredential = "INVALID CREDENTIAL"
	ErrInternal          = "INTERNAL"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"` // dependent records blocking a guarded delete
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}

// CodeOf walks the wrap chain and returns the taxonomy code of err,
// defaulting to ErrInternal when no ErrorResponse is present.
func CodeOf(err error) string {
	var resp ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return ErrInternal
}
