// File: internal/services/fakes_test.go
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
	chatrepo "github.com/Eden1011/todo-app-sub000/internal/repository/chat"
	messagerepo "github.com/Eden1011/todo-app-sub000/internal/repository/message"
)

// fakeChatRepo is an in-memory ChatRepository preserving insertion order,
// so "earliest active" matches creation order.
type fakeChatRepo struct {
	mu      sync.Mutex
	chats   []*domain.Chat
	touched map[primitive.ObjectID]int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{touched: make(map[primitive.ObjectID]int)}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.chats {
		if existing.IsActive && existing.ProjectID == chat.ProjectID && existing.Name == chat.Name {
			return nil, chatrepo.ErrDuplicateChatName
		}
	}

	stored := *chat
	stored.ID = primitive.NewObjectID()
	stored.IsActive = true
	stored.CreatedAt = time.Now().Add(time.Duration(len(r.chats)) * time.Millisecond)
	stored.UpdatedAt = stored.CreatedAt
	stored.LastActivity = stored.CreatedAt
	r.chats = append(r.chats, &stored)
	return &stored, nil
}

func (r *fakeChatRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) FindActiveByProjectAndName(ctx context.Context, projectID int, name string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.IsActive && c.ProjectID == projectID && c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) FindEarliestActiveByProject(ctx context.Context, projectID int) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.IsActive && c.ProjectID == projectID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) ListActiveByProject(ctx context.Context, projectID int) ([]domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Chat
	for _, c := range r.chats {
		if c.IsActive && c.ProjectID == projectID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) SoftDeactivate(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.ID == id && c.IsActive {
			c.IsActive = false
			return nil
		}
	}
	return chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) TouchActivity(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.ID == id {
			c.LastActivity = time.Now()
			r.touched[id]++
			return nil
		}
	}
	return chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeChatRepo) touchCount(id primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touched[id]
}

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *message
	stored.ID = primitive.NewObjectID()
	if stored.MessageType == "" {
		stored.MessageType = domain.MessageTypeText
	}
	stored.CreatedAt = time.Now().Add(time.Duration(len(r.messages)) * time.Millisecond)
	stored.UpdatedAt = stored.CreatedAt
	r.messages = append(r.messages, &stored)
	return &stored, nil
}

func (r *fakeMessageRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, messagerepo.ErrMessageNotFound
}

func (r *fakeMessageRepo) MarkEdited(ctx context.Context, id primitive.ObjectID, content string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id && !m.IsDeleted {
			now := time.Now()
			m.Content = content
			m.IsEdited = true
			m.EditedAt = &now
			m.UpdatedAt = now
			copied := *m
			return &copied, nil
		}
	}
	return nil, messagerepo.ErrMessageNotFound
}

func (r *fakeMessageRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id && !m.IsDeleted {
			now := time.Now()
			m.IsDeleted = true
			m.DeletedAt = &now
			m.UpdatedAt = now
			copied := *m
			return &copied, nil
		}
	}
	return nil, messagerepo.ErrMessageNotFound
}

func (r *fakeMessageRepo) matches(m *domain.Message, chatID primitive.ObjectID, filter messagerepo.Filter) bool {
	if m.ChatID != chatID {
		return false
	}
	if !filter.IncludeDeleted && m.IsDeleted {
		return false
	}
	if filter.MessageType != "" && m.MessageType != filter.MessageType {
		return false
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(m.Content), strings.ToLower(filter.Search)) {
		return false
	}
	return true
}

func (r *fakeMessageRepo) FindByChatWithPagination(ctx context.Context, chatID primitive.ObjectID, filter messagerepo.Filter, limit, offset int) ([]domain.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []domain.Message
	for _, m := range r.messages {
		if r.matches(m, chatID, filter) {
			all = append(all, *m)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeMessageRepo) CountByChat(ctx context.Context, chatID primitive.ObjectID, filter messagerepo.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if r.matches(m, chatID, filter) {
			n++
		}
	}
	return n, nil
}

// Membership gates for tests.
func allowAll(int) bool { return true }
func denyAll(int) bool  { return false }

func messageFilterAll() messagerepo.Filter {
	return messagerepo.Filter{IncludeDeleted: true}
}
