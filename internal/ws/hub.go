// File: internal/ws/hub.go
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/Eden1011/todo-app-sub000/internal/ratelimit"
	chatrepo "github.com/Eden1011/todo-app-sub000/internal/repository/chat"
	messagerepo "github.com/Eden1011/todo-app-sub000/internal/repository/message"
	"github.com/Eden1011/todo-app-sub000/internal/services"
	"github.com/Eden1011/todo-app-sub000/internal/services/identity"
	"github.com/Eden1011/todo-app-sub000/internal/services/project"
)

// Options tune hub behavior that the source left implicit.
type Options struct {
	// BroadcastLeaveOnDisconnect makes a dropped socket broadcast
	// user_left like an explicit leave_project does. Off by default:
	// the source only announced explicit leaves.
	BroadcastLeaveOnDisconnect bool
}

// Hub is the room membership and broadcast engine. Handlers run
// concurrently across connections with no cross-handler locking; for one
// room, whichever send completes persistence first broadcasts first.
type Hub struct {
	registry *Registry
	verifier identity.Verifier
	oracle   project.Oracle
	chats    *services.ChatService
	messages *services.MessageService

	connLimiter *ratelimit.FixedWindowLimiter
	msgLimiter  *ratelimit.FixedWindowLimiter

	logger services.Logger
	opts   Options

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(
	verifier identity.Verifier,
	oracle project.Oracle,
	chats *services.ChatService,
	messages *services.MessageService,
	connLimiter *ratelimit.FixedWindowLimiter,
	msgLimiter *ratelimit.FixedWindowLimiter,
	logger services.Logger,
	opts Options,
) *Hub {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &Hub{
		registry:    NewRegistry(),
		verifier:    verifier,
		oracle:      oracle,
		chats:       chats,
		messages:    messages,
		connLimiter: connLimiter,
		msgLimiter:  msgLimiter,
		logger:      logger,
		opts:        opts,
		clients:     make(map[string]*Client),
	}
}

// AllowConnection consults the per-user connection window.
func (h *Hub) AllowConnection(userID int) bool {
	allowed, _ := h.connLimiter.Allow(strconv.Itoa(userID))
	return allowed
}

func (h *Hub) allowMessage(userID int) bool {
	allowed, _ := h.msgLimiter.Allow(strconv.Itoa(userID))
	return allowed
}

// Register adds an authenticated client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.logger.Info("client connected", "clientId", c.ID, "userId", c.UserID)
}

// Unregister drops the client from every room. By default no user_left is
// broadcast for a plain disconnect, unlike an explicit leave_project.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	h.mu.Unlock()

	rooms := h.registry.LeaveAll(c)
	if h.opts.BroadcastLeaveOnDisconnect {
		for _, room := range rooms {
			h.broadcast(room, EventUserLeft, presencePayload{UserID: c.UserID, Timestamp: time.Now().UTC()})
		}
	}
	// send stays open: concurrent broadcasters may still hold this client
	// in a room snapshot, and sending on a closed channel would panic.
	close(c.done)
	h.logger.Info("client disconnected", "clientId", c.ID, "userId", c.UserID, "rooms", len(rooms))
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// membershipGate builds the fail-closed gate the message service expects,
// bound to this client's identity and token.
func (h *Hub) membershipGate(ctx context.Context, c *Client) services.MembershipGate {
	return func(projectID int) bool {
		return h.oracle.IsMember(ctx, c.UserID, projectID, c.token)
	}
}

func (h *Hub) handleJoinProject(ctx context.Context, c *Client, raw json.RawMessage) {
	var payload joinProjectPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ProjectID <= 0 {
		h.sendError(c, "Invalid project ID", "projectId must be a positive integer")
		return
	}

	if !h.oracle.IsMember(ctx, c.UserID, payload.ProjectID, c.token) {
		h.sendError(c, "Access denied: not a project member", "")
		return
	}

	room := RoomName(payload.ProjectID)
	h.registry.Join(room, c)
	h.emit(c, EventJoinedProject, roomAckPayload{ProjectID: payload.ProjectID, Room: room})
	h.broadcastExcept(room, c, EventUserJoined, presencePayload{UserID: c.UserID, Timestamp: time.Now().UTC()})
	h.logger.Debug("client joined room", "clientId", c.ID, "room", room)
}

// handleLeaveProject needs no membership re-check: leaving is always
// permitted and idempotent.
func (h *Hub) handleLeaveProject(ctx context.Context, c *Client, raw json.RawMessage) {
	var payload joinProjectPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ProjectID <= 0 {
		h.sendError(c, "Invalid project ID", "projectId must be a positive integer")
		return
	}

	room := RoomName(payload.ProjectID)
	h.registry.Leave(room, c)
	h.emit(c, EventLeftProject, roomAckPayload{ProjectID: payload.ProjectID, Room: room})
	h.broadcast(room, EventUserLeft, presencePayload{UserID: c.UserID, Timestamp: time.Now().UTC()})
}

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, raw json.RawMessage) {
	if !h.allowMessage(c.UserID) {
		h.sendError(c, "You are sending messages too fast. Slow down.", "")
		return
	}

	var payload sendMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(c, "Malformed send_message payload", err.Error())
		return
	}

	msg, chat, err := h.messages.Send(ctx, payload.ChatID, c.UserID, payload.Content, payload.MessageType, payload.Metadata, h.membershipGate(ctx, c))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	// Persistence completed; everyone in the project room sees the
	// message, the sender included, so all clients converge.
	h.broadcast(RoomName(chat.ProjectID), EventNewMessage, newMessagePayload{
		Data: msg,
		ChatInfo: chatInfo{
			ID:        chat.ID.Hex(),
			ProjectID: chat.ProjectID,
			Name:      chat.Name,
		},
	})
}

func (h *Hub) handleEditMessage(ctx context.Context, c *Client, raw json.RawMessage) {
	var payload editMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(c, "Malformed edit_message payload", err.Error())
		return
	}

	msg, chat, err := h.messages.Edit(ctx, payload.MessageID, c.UserID, payload.Content, h.membershipGate(ctx, c))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	h.broadcast(RoomName(chat.ProjectID), EventMessageEdited, messageEditedPayload{Data: msg})
}

func (h *Hub) handleDeleteMessage(ctx context.Context, c *Client, raw json.RawMessage) {
	var payload deleteMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(c, "Malformed delete_message payload", err.Error())
		return
	}

	msg, chat, err := h.messages.Delete(ctx, payload.MessageID, c.UserID, h.membershipGate(ctx, c))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	h.broadcast(RoomName(chat.ProjectID), EventMessageDeleted, messageDeletedPayload{
		MessageID: msg.ID.Hex(),
		ChatID:    msg.ChatID.Hex(),
		DeletedBy: c.UserID,
		DeletedAt: *msg.DeletedAt,
	})
}

// handleTyping is best-effort: failures are logged and swallowed so a
// cosmetic indicator can never surface an error or break the connection.
func (h *Hub) handleTyping(ctx context.Context, c *Client, raw json.RawMessage, isTyping bool) {
	var payload typingPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}

	chat, err := h.chats.GetActiveChat(ctx, payload.ChatID)
	if err != nil {
		h.logger.Debug("typing event dropped", "clientId", c.ID, "error", err.Error())
		return
	}
	if !h.oracle.IsMember(ctx, c.UserID, chat.ProjectID, c.token) {
		h.logger.Debug("typing event dropped: not a member", "clientId", c.ID, "projectId", chat.ProjectID)
		return
	}

	h.broadcastExcept(RoomName(chat.ProjectID), c, EventUserTyping, userTypingPayload{
		UserID:   c.UserID,
		ChatID:   payload.ChatID,
		IsTyping: isTyping,
	})
}

func (h *Hub) handleOnlineUsers(ctx context.Context, c *Client, raw json.RawMessage) {
	var payload joinProjectPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ProjectID <= 0 {
		h.sendError(c, "Invalid project ID", "projectId must be a positive integer")
		return
	}

	if !h.oracle.IsMember(ctx, c.UserID, payload.ProjectID, c.token) {
		h.sendError(c, "Access denied: not a project member", "")
		return
	}

	h.emit(c, EventOnlineUsers, onlineUsersPayload{
		ProjectID:   payload.ProjectID,
		OnlineUsers: h.registry.UserIDs(RoomName(payload.ProjectID)),
	})
}

// emit sends one event to a single client.
func (h *Hub) emit(c *Client, event string, data interface{}) {
	frame, err := marshalFrame(event, data)
	if err != nil {
		h.logger.Error("failed to marshal frame", "event", event, "error", err.Error())
		return
	}
	c.deliver(frame)
}

// broadcast fans an event out to every occupant of room.
func (h *Hub) broadcast(room, event string, data interface{}) {
	h.broadcastExcept(room, nil, event, data)
}

// broadcastExcept fans out to every occupant of room but exclude.
func (h *Hub) broadcastExcept(room string, exclude *Client, event string, data interface{}) {
	frame, err := marshalFrame(event, data)
	if err != nil {
		h.logger.Error("failed to marshal frame", "event", event, "error", err.Error())
		return
	}
	for _, client := range h.registry.Clients(room) {
		if exclude != nil && client.ID == exclude.ID {
			continue
		}
		client.deliver(frame)
	}
}

// sendError reports a failure to the originating connection only. The
// connection stays alive; room-scoped failures never broadcast.
func (h *Hub) sendError(c *Client, message, details string) {
	h.emit(c, EventError, errorPayload{Success: false, Error: message, Details: details})
}

func (h *Hub) sendServiceError(c *Client, err error) {
	switch {
	case errors.Is(err, chatrepo.ErrChatNotFound):
		h.sendError(c, "Chat not found", "")
	case errors.Is(err, messagerepo.ErrMessageNotFound):
		h.sendError(c, "Message not found", "")
	case errors.Is(err, services.ErrNotMessageAuthor):
		h.sendError(c, "You can only modify your own messages", "")
	case errors.Is(err, services.ErrNotProjectMember):
		h.sendError(c, "Access denied: not a project member", "")
	case services.IsValidation(err):
		h.sendError(c, "Invalid payload", err.Error())
	default:
		h.logger.Error("unexpected handler error", "clientId", c.ID, "error", err.Error())
		h.sendError(c, "Internal error", "")
	}
}
