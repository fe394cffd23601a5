// File: internal/services/message_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
	chatrepo "github.com/Eden1011/todo-app-sub000/internal/repository/chat"
	messagerepo "github.com/Eden1011/todo-app-sub000/internal/repository/message"
)

const exportPageLimit = 1000

type MessageService struct {
	chatRepo    chatrepo.ChatRepository
	messageRepo messagerepo.MessageRepository
	logger      Logger
}

func NewMessageService(chatRepo chatrepo.ChatRepository, messageRepo messagerepo.MessageRepository, logger Logger) (*MessageService, error) {
	if chatRepo == nil {
		return nil, NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &MessageService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}, nil
}

// Send validates the payload, gates on project membership, persists the
// message and bumps the chat's lastActivity before returning, so the
// activity timestamp always reflects the acknowledged message.
func (s *MessageService) Send(ctx context.Context, chatID string, userID int, content, messageType string, metadata map[string]interface{}, gate MembershipGate) (*domain.Message, *domain.Chat, error) {
	if messageType == "" {
		messageType = domain.MessageTypeText
	}
	if err := validateContent("send_message", content); err != nil {
		return nil, nil, err
	}
	if !domain.IsValidMessageType(messageType) {
		return nil, nil, NewValidationError("send_message", fmt.Sprintf("unrecognized message type: %s", messageType))
	}

	chat, err := s.getActiveChat(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	if !gate(chat.ProjectID) {
		return nil, nil, ErrNotProjectMember
	}

	msg, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:      chat.ID,
		UserID:      userID,
		Content:     strings.TrimSpace(content),
		MessageType: messageType,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.chatRepo.TouchActivity(ctx, chat.ID); err != nil {
		// The message is durable; stale lastActivity is the lesser harm.
		s.logger.Warn("failed to bump chat activity", "chatId", chat.ID.Hex(), "error", err.Error())
	}

	return msg, chat, nil
}

// Edit mutates a message's content. Author only; system messages are never
// edited. Membership is re-checked against the owning chat's project.
func (s *MessageService) Edit(ctx context.Context, messageID string, userID int, content string, gate MembershipGate) (*domain.Message, *domain.Chat, error) {
	if err := validateContent("edit_message", content); err != nil {
		return nil, nil, err
	}

	msg, chat, err := s.loadAuthoredMessage(ctx, messageID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !gate(chat.ProjectID) {
		return nil, nil, ErrNotProjectMember
	}

	updated, err := s.messageRepo.MarkEdited(ctx, msg.ID, strings.TrimSpace(content))
	if err != nil {
		return nil, nil, err
	}
	return updated, chat, nil
}

// Delete soft-deletes a message, retaining content for audit. Author only.
func (s *MessageService) Delete(ctx context.Context, messageID string, userID int, gate MembershipGate) (*domain.Message, *domain.Chat, error) {
	msg, chat, err := s.loadAuthoredMessage(ctx, messageID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !gate(chat.ProjectID) {
		return nil, nil, ErrNotProjectMember
	}

	deleted, err := s.messageRepo.SoftDelete(ctx, msg.ID)
	if err != nil {
		return nil, nil, err
	}
	return deleted, chat, nil
}

// List returns one page of a chat's visible messages.
func (s *MessageService) List(ctx context.Context, chatID string, filter messagerepo.Filter, page, limit int) ([]domain.Message, int64, error) {
	chat, err := s.getActiveChat(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.messageRepo.FindByChatWithPagination(ctx, chat.ID, filter, limit, (page-1)*limit)
}

// Search finds visible messages whose content matches term.
func (s *MessageService) Search(ctx context.Context, chatID, term string, limit int) ([]domain.Message, int64, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, 0, NewValidationError("search_messages", "search term cannot be empty")
	}
	if len(term) > 100 {
		return nil, 0, NewValidationError("search_messages", "search term too long")
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	chat, err := s.getActiveChat(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}
	return s.messageRepo.FindByChatWithPagination(ctx, chat.ID, messagerepo.Filter{Search: term}, limit, 0)
}

// Export returns every message of a chat, soft-deleted ones included, for
// export and audit.
func (s *MessageService) Export(ctx context.Context, chatID string) ([]domain.Message, error) {
	chat, err := s.getActiveChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	filter := messagerepo.Filter{IncludeDeleted: true}
	var all []domain.Message
	for offset := 0; ; offset += exportPageLimit {
		page, total, err := s.messageRepo.FindByChatWithPagination(ctx, chat.ID, filter, exportPageLimit, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if int64(len(all)) >= total || len(page) == 0 {
			break
		}
	}
	return all, nil
}

// Count returns the number of messages matching filter.
func (s *MessageService) Count(ctx context.Context, chatID string, filter messagerepo.Filter) (int64, error) {
	chat, err := s.getActiveChat(ctx, chatID)
	if err != nil {
		return 0, err
	}
	return s.messageRepo.CountByChat(ctx, chat.ID, filter)
}

// ChatInfo resolves the active chat for chatID so callers can gate reads
// on the owning project before touching history.
func (s *MessageService) ChatInfo(ctx context.Context, chatID string) (*domain.Chat, error) {
	return s.getActiveChat(ctx, chatID)
}

func (s *MessageService) getActiveChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	id, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, NewValidationError("get_chat", "invalid chat ID")
	}
	chat, err := s.chatRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !chat.IsActive {
		return nil, chatrepo.ErrChatNotFound
	}
	return chat, nil
}

// loadAuthoredMessage resolves a visible message and its active chat,
// enforcing the author-only rule before anything else leaks.
func (s *MessageService) loadAuthoredMessage(ctx context.Context, messageID string, userID int) (*domain.Message, *domain.Chat, error) {
	id, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, nil, NewValidationError("get_message", "invalid message ID")
	}
	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if msg.IsDeleted {
		return nil, nil, messagerepo.ErrMessageNotFound
	}
	if msg.UserID != userID {
		return nil, nil, ErrNotMessageAuthor
	}
	chat, err := s.getActiveChat(ctx, msg.ChatID.Hex())
	if err != nil {
		return nil, nil, err
	}
	return msg, chat, nil
}

func validateContent(op, content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError(op, "message content cannot be empty")
	}
	if len(content) > domain.MaxMessageContentLength {
		return NewValidationError(op, fmt.Sprintf("message content must be %d characters or less", domain.MaxMessageContentLength))
	}
	return nil
}
