// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Eden1011/todo-app-sub000/internal/repository/chat"
	"github.com/Eden1011/todo-app-sub000/internal/repository/message"
	"github.com/Eden1011/todo-app-sub000/internal/services"
)

// writeJSON writes any payload with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Handlers] Failed to encode response: %v", err)
	}
}

// writeData wraps data in the success envelope.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// writeError wraps a message in the failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeErrorDetails includes a details field for validation feedback.
func writeErrorDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
		"details": details,
	})
}

// handleServiceError maps domain errors to HTTP statuses. Anything
// unrecognized is logged and hidden behind a generic 500.
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeErrorDetails(w, http.StatusBadRequest, "Invalid request", validationErr.Message)
	case errors.Is(err, chat.ErrChatNotFound):
		writeError(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, message.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "Message not found")
	case errors.Is(err, chat.ErrDuplicateChatName):
		writeError(w, http.StatusConflict, "A chat with this name already exists in the project")
	case errors.Is(err, services.ErrNotChatCreator):
		writeError(w, http.StatusForbidden, "Only the chat creator can delete it")
	case errors.Is(err, services.ErrNotMessageAuthor):
		writeError(w, http.StatusForbidden, "You can only modify your own messages")
	case errors.Is(err, services.ErrNotProjectMember):
		writeError(w, http.StatusForbidden, "Access denied: not a project member")
	default:
		log.Printf("[Handlers] Unexpected service error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
