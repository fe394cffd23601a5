// File: internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Authorization sentinels. Authenticated-but-not-allowed cases, mapped to
// 403 on the REST surface and to error events on the socket.
var ErrNotChatCreator = errors.New("only the chat creator may delete it")
var ErrNotMessageAuthor = errors.New("only the message author may modify it")
var ErrNotProjectMember = errors.New("access denied: not a project member")

// ValidationError reports a malformed payload shape or bound.
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed in %s: %s", e.Op, e.Message)
}

func NewValidationError(op, message string) *ValidationError {
	return &ValidationError{Op: op, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// MembershipGate answers "may the current caller act inside this project".
// Implementations consult the membership oracle with the caller's token and
// must fail closed.
type MembershipGate func(projectID int) bool
