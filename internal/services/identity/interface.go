// File: internal/services/identity/interface.go
package identity

import "context"

// VerifiedUser is the identity resolved by the auth service for a bearer
// token. IDs are owned by the external user store.
type VerifiedUser struct {
	ID       int    `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Verifier checks bearer tokens against the external identity service.
// Used identically by HTTP middleware ingress and the socket handshake.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*VerifiedUser, error)
}

// Logger is the subset of logging this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
