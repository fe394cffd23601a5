// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
	chatrepo "github.com/Eden1011/todo-app-sub000/internal/repository/chat"
	messagerepo "github.com/Eden1011/todo-app-sub000/internal/repository/message"
)

// DefaultChatName is used when a chat must exist for a project but nobody
// named one.
const DefaultChatName = "General"

type ChatService struct {
	chatRepo    chatrepo.ChatRepository
	messageRepo messagerepo.MessageRepository
	logger      Logger
}

func NewChatService(chatRepo chatrepo.ChatRepository, messageRepo messagerepo.MessageRepository, logger Logger) (*ChatService, error) {
	if chatRepo == nil {
		return nil, NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}, nil
}

// CreateChat creates a chat for a project. The name must be unique among
// the project's active chats; soft-deleted names may be reused.
func (s *ChatService) CreateChat(ctx context.Context, userID, projectID int, name, description string) (*domain.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("create_chat", "chat name cannot be empty")
	}
	if len(name) > domain.MaxChatNameLength {
		return nil, NewValidationError("create_chat", fmt.Sprintf("chat name must be %d characters or less", domain.MaxChatNameLength))
	}
	if projectID <= 0 {
		return nil, NewValidationError("create_chat", "project ID must be a positive integer")
	}

	// Probe first for the common case; the partial unique index settles
	// the race either way.
	if _, err := s.chatRepo.FindActiveByProjectAndName(ctx, projectID, name); err == nil {
		return nil, chatrepo.ErrDuplicateChatName
	} else if !errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, err
	}

	return s.chatRepo.Create(ctx, &domain.Chat{
		ProjectID:   projectID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   userID,
	})
}

// GetActiveChat resolves a chat id to its active document. Inactive chats
// read as not found.
func (s *ChatService) GetActiveChat(ctx context.Context, chatID string) (*domain.Chat, error) {
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

func (s *ChatService) ListProjectChats(ctx context.Context, projectID int) ([]domain.Chat, error) {
	if projectID <= 0 {
		return nil, NewValidationError("list_chats", "project ID must be a positive integer")
	}
	return s.chatRepo.ListActiveByProject(ctx, projectID)
}

// GetOrCreateDefaultChat returns the project's default chat - the earliest
// created active one - creating it lazily on first request.
func (s *ChatService) GetOrCreateDefaultChat(ctx context.Context, projectID, userID int) (*domain.Chat, bool, error) {
	if projectID <= 0 {
		return nil, false, NewValidationError("default_chat", "project ID must be a positive integer")
	}
	return s.ensureDefaultChat(ctx, projectID, userID, "")
}

// DeleteChat soft-deactivates a chat. Creator only; no moderator override.
func (s *ChatService) DeleteChat(ctx context.Context, chatID string, userID int) error {
	chat, err := s.GetActiveChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.CreatedBy != userID {
		return ErrNotChatCreator
	}
	return s.chatRepo.SoftDeactivate(ctx, chat.ID)
}

// AutoProvision idempotently ensures exactly one active default chat exists
// for a project, emitting a welcome system message on first creation only.
// Called by a trusted internal peer when a project is created.
func (s *ChatService) AutoProvision(ctx context.Context, projectID int, projectName string, ownerID int) (*domain.Chat, bool, error) {
	if projectID <= 0 {
		return nil, false, NewValidationError("auto_provision", "project ID must be a positive integer")
	}
	if ownerID <= 0 {
		return nil, false, NewValidationError("auto_provision", "owner ID must be a positive integer")
	}
	return s.ensureDefaultChat(ctx, projectID, ownerID, projectName)
}

func (s *ChatService) ensureDefaultChat(ctx context.Context, projectID, authorID int, projectName string) (*domain.Chat, bool, error) {
	existing, err := s.chatRepo.FindEarliestActiveByProject(ctx, projectID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, false, err
	}

	chat, err := s.chatRepo.Create(ctx, &domain.Chat{
		ProjectID: projectID,
		Name:      DefaultChatName,
		CreatedBy: authorID,
	})
	if errors.Is(err, chatrepo.ErrDuplicateChatName) {
		// Lost the race to a concurrent provision; the winner's chat is
		// the one true default.
		existing, findErr := s.chatRepo.FindEarliestActiveByProject(ctx, projectID)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	welcome := "Welcome to the project chat!"
	if projectName != "" {
		welcome = fmt.Sprintf("Welcome to the %s chat!", projectName)
	}
	if _, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:      chat.ID,
		UserID:      authorID,
		Content:     welcome,
		MessageType: domain.MessageTypeSystem,
		Metadata:    map[string]interface{}{"action": "chat_created"},
	}); err != nil {
		// The chat exists and is usable; a missing welcome notice is not
		// worth failing provisioning over.
		s.logger.Warn("failed to create welcome message", "projectId", projectID, "error", err.Error())
	}

	s.logger.Info("default chat provisioned", "projectId", projectID, "chatId", chat.ID.Hex())
	return chat, true, nil
}
