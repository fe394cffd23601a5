// File: internal/middleware/constants.go
package middleware

import (
	"context"

	"github.com/Eden1011/todo-app-sub000/internal/services/identity"
)

// Context keys for middleware communication
type contextKey string

const (
	UserKey  contextKey = "user"
	TokenKey contextKey = "token"
)

// UserFromContext returns the verified identity placed by the auth
// middleware.
func UserFromContext(ctx context.Context) (*identity.VerifiedUser, bool) {
	user, ok := ctx.Value(UserKey).(*identity.VerifiedUser)
	return user, ok
}

// TokenFromContext returns the raw bearer token; downstream membership
// checks present it to the task service.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
