// File: internal/ws/events.go
package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
)

// Client -> server events.
const (
	EventJoinProject    = "join_project"
	EventLeaveProject   = "leave_project"
	EventSendMessage    = "send_message"
	EventEditMessage    = "edit_message"
	EventDeleteMessage  = "delete_message"
	EventTypingStart    = "typing_start"
	EventTypingStop     = "typing_stop"
	EventGetOnlineUsers = "get_online_users"
)

// Server -> client events.
const (
	EventJoinedProject  = "joined_project"
	EventLeftProject    = "left_project"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventNewMessage     = "new_message"
	EventMessageEdited  = "message_edited"
	EventMessageDeleted = "message_deleted"
	EventUserTyping     = "user_typing"
	EventOnlineUsers    = "online_users"
	EventError          = "error"
)

// Frame is the wire envelope in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoomName maps a project to its broadcast scope. One room per project,
// shared by all its chats.
func RoomName(projectID int) string {
	return fmt.Sprintf("project_%d", projectID)
}

// Inbound payloads.

type joinProjectPayload struct {
	ProjectID int `json:"projectId"`
}

type sendMessagePayload struct {
	ChatID      string                 `json:"chatId"`
	Content     string                 `json:"content"`
	MessageType string                 `json:"messageType,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type editMessagePayload struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

type deleteMessagePayload struct {
	MessageID string `json:"messageId"`
}

type typingPayload struct {
	ChatID string `json:"chatId"`
}

// Outbound payloads.

type errorPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type roomAckPayload struct {
	ProjectID int    `json:"projectId"`
	Room      string `json:"room"`
}

type presencePayload struct {
	UserID    int       `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type chatInfo struct {
	ID        string `json:"id"`
	ProjectID int    `json:"projectId"`
	Name      string `json:"name"`
}

type newMessagePayload struct {
	Data     *domain.Message `json:"data"`
	ChatInfo chatInfo        `json:"chatInfo"`
}

type messageEditedPayload struct {
	Data *domain.Message `json:"data"`
}

type messageDeletedPayload struct {
	MessageID string    `json:"messageId"`
	ChatID    string    `json:"chatId"`
	DeletedBy int       `json:"deletedBy"`
	DeletedAt time.Time `json:"deletedAt"`
}

type userTypingPayload struct {
	UserID   int    `json:"userId"`
	ChatID   string `json:"chatId"`
	IsTyping bool   `json:"isTyping"`
}

type onlineUsersPayload struct {
	ProjectID   int   `json:"projectId"`
	OnlineUsers []int `json:"onlineUsers"`
}

// marshalFrame encodes one outbound event. Payloads are our own types, so
// a marshal failure is a programming error worth surfacing loudly in logs
// but never worth killing a connection over.
func marshalFrame(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
