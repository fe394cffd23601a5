// File: internal/services/project/errors.go
package project

import "fmt"

type ErrorType string

const (
	ErrTypeNotFound ErrorType = "NOT_FOUND"
	ErrTypeNetwork  ErrorType = "NETWORK"
	ErrTypeProvider ErrorType = "PROVIDER"
)

type ProjectError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *ProjectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("project %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("project %s error: %s", e.Type, e.Message)
}

func (e *ProjectError) Unwrap() error {
	return e.Cause
}

func NewNotFoundError(projectID int) *ProjectError {
	return &ProjectError{Type: ErrTypeNotFound, Message: fmt.Sprintf("project %d not found", projectID)}
}

func NewNetworkError(cause error) *ProjectError {
	return &ProjectError{Type: ErrTypeNetwork, Message: "task service unreachable", Cause: cause}
}

func NewProviderError(code int, msg string) *ProjectError {
	return &ProjectError{Type: ErrTypeProvider, Code: code, Message: msg}
}

// IsNotFound reports whether err is a NOT_FOUND project error.
func IsNotFound(err error) bool {
	projErr, ok := err.(*ProjectError)
	return ok && projErr.Type == ErrTypeNotFound
}
