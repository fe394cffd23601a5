// File: internal/repository/chat/interface.go
package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
)

// ChatRepository handles chat document operations. Deactivation is
// monotonic: there is no re-activate operation.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Chat, error)
	FindActiveByProjectAndName(ctx context.Context, projectID int, name string) (*domain.Chat, error)
	// FindEarliestActiveByProject defines "the default chat" of a project.
	FindEarliestActiveByProject(ctx context.Context, projectID int) (*domain.Chat, error)
	ListActiveByProject(ctx context.Context, projectID int) ([]domain.Chat, error)
	SoftDeactivate(ctx context.Context, id primitive.ObjectID) error
	TouchActivity(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}
