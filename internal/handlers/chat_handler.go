// File: internal/handlers/chat_handler.go
package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Eden1011/todo-app-sub000/internal/middleware"
	"github.com/Eden1011/todo-app-sub000/internal/services"
	"github.com/Eden1011/todo-app-sub000/internal/services/project"
)

// ChatHandler serves the chat container REST surface.
type ChatHandler struct {
	chats  *services.ChatService
	oracle project.Oracle
}

func NewChatHandler(chats *services.ChatService, oracle project.Oracle) *ChatHandler {
	return &ChatHandler{chats: chats, oracle: oracle}
}

type createChatRequest struct {
	ProjectID   int    `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type autoProvisionRequest struct {
	ProjectID   int    `json:"projectId"`
	ProjectName string `json:"projectName"`
	OwnerID     int    `json:"ownerId"`
}

// CreateChat handles POST /api/chat. The caller must be a member of the
// target project.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createChatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ProjectID <= 0 {
		writeError(w, http.StatusBadRequest, "projectId must be a positive integer")
		return
	}

	token, _ := middleware.TokenFromContext(r.Context())
	if !h.oracle.IsMember(r.Context(), user.ID, req.ProjectID, token) {
		writeError(w, http.StatusForbidden, "Access denied: not a project member")
		return
	}

	chat, err := h.chats.CreateChat(r.Context(), user.ID, req.ProjectID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	log.Printf("[ChatHandler] User %d created chat %s in project %d", user.ID, chat.ID.Hex(), req.ProjectID)
	writeData(w, http.StatusCreated, chat)
}

// ListProjectChats handles GET /api/chat/project/{projectId}.
func (h *ChatHandler) ListProjectChats(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	projectID, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil || projectID <= 0 {
		writeError(w, http.StatusBadRequest, "projectId must be a positive integer")
		return
	}

	token, _ := middleware.TokenFromContext(r.Context())
	if !h.oracle.IsMember(r.Context(), user.ID, projectID, token) {
		writeError(w, http.StatusForbidden, "Access denied: not a project member")
		return
	}

	chats, err := h.chats.ListProjectChats(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"projectId": projectID,
		"chats":     chats,
		"count":     len(chats),
	})
}

// GetDefaultChat handles GET /api/chat/project/{projectId}/default. A
// missing default chat is provisioned on the fly so the frontend always
// has somewhere to post.
func (h *ChatHandler) GetDefaultChat(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	projectID, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil || projectID <= 0 {
		writeError(w, http.StatusBadRequest, "projectId must be a positive integer")
		return
	}

	token, _ := middleware.TokenFromContext(r.Context())
	if !h.oracle.IsMember(r.Context(), user.ID, projectID, token) {
		writeError(w, http.StatusForbidden, "Access denied: not a project member")
		return
	}

	chat, created, err := h.chats.GetOrCreateDefaultChat(r.Context(), projectID, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeData(w, status, chat)
}

// DeleteChat handles DELETE /api/chat/{id}. Only the creator may delete,
// and deletion is a soft deactivation.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	chatID := mux.Vars(r)["id"]
	if err := h.chats.DeleteChat(r.Context(), chatID, user.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	log.Printf("[ChatHandler] User %d deleted chat %s", user.ID, chatID)
	writeData(w, http.StatusOK, map[string]interface{}{
		"message": "Chat deleted",
		"chatId":  chatID,
	})
}

// AutoProvision handles POST /api/chat/auto-provision. The task service
// calls this when a project is created; the endpoint is idempotent.
func (h *ChatHandler) AutoProvision(w http.ResponseWriter, r *http.Request) {
	var req autoProvisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ProjectID <= 0 {
		writeError(w, http.StatusBadRequest, "projectId must be a positive integer")
		return
	}
	if req.OwnerID <= 0 {
		writeError(w, http.StatusBadRequest, "ownerId must be a positive integer")
		return
	}

	chat, created, err := h.chats.AutoProvision(r.Context(), req.ProjectID, req.ProjectName, req.OwnerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		log.Printf("[ChatHandler] Auto-provisioned default chat for project %d", req.ProjectID)
	}
	writeData(w, status, map[string]interface{}{
		"chat":    chat,
		"created": created,
	})
}
