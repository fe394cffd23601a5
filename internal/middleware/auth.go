// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/Eden1011/todo-app-sub000/internal/services/identity"
)

// NewAuthMiddleware validates the bearer token against the identity
// service on every request. The same verification path guards the socket
// handshake, so both surfaces fail identically.
func NewAuthMiddleware(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)

			user, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				status, msg := statusForAuthError(err)
				log.Printf("[AuthMiddleware] Verification failed (%d): %v", status, err)
				writeAuthError(w, status, msg)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") || strings.HasPrefix(authz, "bearer ") {
		return authz[len("Bearer "):]
	}
	return ""
}

// statusForAuthError maps each verification failure mode to its own status
// so clients can tell "re-login" from "retry later".
func statusForAuthError(err error) (int, string) {
	switch identity.TypeOf(err) {
	case identity.ErrTypeMissingToken:
		return http.StatusUnauthorized, "token required"
	case identity.ErrTypeInvalidToken:
		return http.StatusUnauthorized, "invalid or expired token"
	case identity.ErrTypeUnavailable:
		return http.StatusServiceUnavailable, "auth service unavailable"
	case identity.ErrTypeTimeout:
		return http.StatusGatewayTimeout, "auth service timeout"
	default:
		return http.StatusInternalServerError, "authentication failed"
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
