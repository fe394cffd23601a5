// File: internal/ws/websocket.go
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/Eden1011/todo-app-sub000/internal/services/identity"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are enforced by the CORS layer in front of the
	// REST surface; the socket gate is the bearer token itself.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS performs the handshake: token extraction, identity verification,
// connection rate limiting, then the upgrade. A refused handshake leaves no
// partial state behind.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)

	user, err := h.verifier.VerifyToken(r.Context(), token)
	if err != nil {
		status, msg := handshakeFailure(err)
		writeHandshakeError(w, status, msg)
		return
	}

	if !h.AllowConnection(user.ID) {
		log.Printf("[WS] Connection rate limit hit for user %d", user.ID)
		writeHandshakeError(w, http.StatusTooManyRequests, "Too many connection attempts. Slow down.")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed for user %d: %v", user.ID, err)
		return
	}

	client := newClient(h, conn, user.ID, token)
	h.Register(client)

	go client.writePump()
	client.readPump()
}

// extractToken prefers the Authorization header over the query parameter
// fallback used by browser WebSocket clients.
func extractToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") || strings.HasPrefix(authz, "bearer ") {
		return authz[len("Bearer "):]
	}
	return r.URL.Query().Get("token")
}

// handshakeFailure keeps bad-credential refusals distinguishable from
// upstream outages, so clients know whether to re-login or retry.
func handshakeFailure(err error) (int, string) {
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

func writeHandshakeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
