// ABOUTME: Error taxonomy shared by the datasource, mapper, repository and presentation
// ABOUTME: Concrete error types wrap these sentinels so callers can use errors.Is

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrRemote           = errors.New("remote error")
	ErrTransport        = errors.New("transport error")
	ErrMapping          = errors.New("mapping error")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// MappingError reports a required field missing from a response we otherwise trust.
type MappingError struct {
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid response: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid response: missing %s", e.Field)
}

func (e *MappingError) Unwrap() error { return ErrMapping }

// OperationError is raised by mutating repository operations.
// Message is what the UI shows; Err keeps the classified cause.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return e.Err }

// ReauthRequired reports whether err means the stored session is no longer accepted.
func ReauthRequired(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotAuthenticated)
}
