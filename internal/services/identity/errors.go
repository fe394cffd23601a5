// File: internal/services/identity/errors.go
package identity

import "fmt"

type ErrorType string

const (
	ErrTypeMissingToken ErrorType = "MISSING_TOKEN"
	ErrTypeInvalidToken ErrorType = "INVALID_TOKEN"
	ErrTypeUnavailable  ErrorType = "UNAVAILABLE"
	ErrTypeTimeout      ErrorType = "TIMEOUT"
	ErrTypeInternal     ErrorType = "INTERNAL"
)

// AuthError keeps the upstream failure modes distinct. Callers map each
// type to a different status code, so the distinction must survive wrapping.
type AuthError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("auth %s error: %s", e.Type, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

func NewMissingTokenError() *AuthError {
	return &AuthError{Type: ErrTypeMissingToken, Message: "token required"}
}

func NewInvalidTokenError() *AuthError {
	return &AuthError{Type: ErrTypeInvalidToken, Message: "invalid or expired token"}
}

func NewUnavailableError(cause error) *AuthError {
	return &AuthError{Type: ErrTypeUnavailable, Message: "auth service unavailable", Cause: cause}
}

func NewTimeoutError(cause error) *AuthError {
	return &AuthError{Type: ErrTypeTimeout, Message: "auth service timeout", Cause: cause}
}

func NewInternalError(msg string, cause error) *AuthError {
	return &AuthError{Type: ErrTypeInternal, Message: msg, Cause: cause}
}

// TypeOf returns the failure type for err, or ErrTypeInternal for anything
// that is not an AuthError.
func TypeOf(err error) ErrorType {
	if authErr, ok := err.(*AuthError); ok {
		return authErr.Type
	}
	return ErrTypeInternal
}
