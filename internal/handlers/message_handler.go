// File: internal/handlers/message_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
	"github.com/Eden1011/todo-app-sub000/internal/middleware"
	message "github.com/Eden1011/todo-app-sub000/internal/repository/message"
	"github.com/Eden1011/todo-app-sub000/internal/services"
	"github.com/Eden1011/todo-app-sub000/internal/services/project"
)

// MessageHandler serves message history and the REST write path. The
// socket hub is the primary write path; these endpoints share the same
// service so both enforce identical rules.
type MessageHandler struct {
	messages *services.MessageService
	oracle   project.Oracle
}

func NewMessageHandler(messages *services.MessageService, oracle project.Oracle) *MessageHandler {
	return &MessageHandler{messages: messages, oracle: oracle}
}

type sendMessageRequest struct {
	Content     string                 `json:"content"`
	MessageType string                 `json:"messageType"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type editMessageRequest struct {
	Content string `json:"content"`
}

// gate builds the membership check for the authenticated request. The
// oracle fails closed, so transport trouble reads as "not a member".
func (h *MessageHandler) gate(r *http.Request, userID int) services.MembershipGate {
	token, _ := middleware.TokenFromContext(r.Context())
	return func(projectID int) bool {
		return h.oracle.IsMember(r.Context(), userID, projectID, token)
	}
}

// SendMessage handles POST /api/chat/{id}/messages.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	chatID := mux.Vars(r)["id"]
	msg, _, err := h.messages.Send(r.Context(), chatID, user.ID, req.Content, req.MessageType, req.Metadata, h.gate(r, user.ID))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, msg)
}

// ListMessages handles GET /api/chat/{id}/messages with page, limit and
// messageType query parameters.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	chatID := mux.Vars(r)["id"]
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	filter := message.Filter{MessageType: query.Get("messageType")}
	if filter.MessageType != "" && !domain.IsValidMessageType(filter.MessageType) {
		writeError(w, http.StatusBadRequest, "Unknown message type")
		return
	}

	// Membership gates history reads too; load the chat first so the
	// project id is known.
	chat, err := h.messages.ChatInfo(r.Context(), chatID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !h.gate(r, user.ID)(chat.ProjectID) {
		writeError(w, http.StatusForbidden, "Access denied: not a project member")
		return
	}

	msgs, total, err := h.messages.List(r.Context(), chatID, filter, page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"messages": msgs,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// SearchMessages handles GET /api/chat/{id}/messages/search?q=term.
func (h *MessageHandler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	chatID := mux.Vars(r)["id"]
	term := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	chat, err := h.messages.ChatInfo(r.Context(), chatID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !h.gate(r, user.ID)(chat.ProjectID) {
		writeError(w, http.StatusForbidden, "Access denied: not a project member")
		return
	}

	msgs, total, err := h.messages.Search(r.Context(), chatID, term, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"query":    term,
		"messages": msgs,
		"total":    total,
	})
}

// ExportMessages handles GET /api/chat/{id}/messages/export and streams
// the full history, soft-deleted entries included, as a JSON download.
func (h *MessageHandler) ExportMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	chatID := mux.Vars(r)["id"]
	chat, err := h.messages.ChatInfo(r.Context(), chatID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !h.gate(r, user.ID)(chat.ProjectID) {
		writeError(w, http.StatusForbidden, "Access denied: not a project member")
		return
	}

	msgs, err := h.messages.Export(r.Context(), chatID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=chat-%s-%s.json", chatID, time.Now().Format("2006-01-02")))
	writeData(w, http.StatusOK, map[string]interface{}{
		"chatId":     chatID,
		"exportedAt": time.Now().UTC(),
		"messages":   msgs,
		"count":      len(msgs),
	})
}

// EditMessage handles PUT /api/message/{id}. Author-only.
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req editMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	messageID := mux.Vars(r)["id"]
	msg, _, err := h.messages.Edit(r.Context(), messageID, user.ID, req.Content, h.gate(r, user.ID))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, msg)
}

// DeleteMessage handles DELETE /api/message/{id}. Author-only soft delete.
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	messageID := mux.Vars(r)["id"]
	msg, _, err := h.messages.Delete(r.Context(), messageID, user.ID, h.gate(r, user.ID))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"message":   "Message deleted",
		"messageId": msg.ID.Hex(),
	})
}
