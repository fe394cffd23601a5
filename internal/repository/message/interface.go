// File: internal/repository/message/interface.go
package message

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
)

// Filter narrows message queries. One optional field per recognized filter;
// the zero value means "visible messages only, any kind".
type Filter struct {
	MessageType    string
	Search         string
	Before         *time.Time
	After          *time.Time
	IncludeDeleted bool
}

// Criteria builds the query document for chatID under this filter.
func (f Filter) Criteria(chatID primitive.ObjectID) bson.M {
	criteria := bson.M{"chatId": chatID}
	if !f.IncludeDeleted {
		criteria["isDeleted"] = false
	}
	if f.MessageType != "" {
		criteria["messageType"] = f.MessageType
	}
	if f.Search != "" {
		// Literal substring match: the term is user input, not a pattern.
		criteria["content"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.Before != nil || f.After != nil {
		created := bson.M{}
		if f.After != nil {
			created["$gte"] = *f.After
		}
		if f.Before != nil {
			created["$lt"] = *f.Before
		}
		criteria["createdAt"] = created
	}
	return criteria
}

// MessageRepository handles message document operations. Soft deletion is
// monotonic; deleted messages stay queryable with IncludeDeleted.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
	MarkEdited(ctx context.Context, id primitive.ObjectID, content string) (*domain.Message, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
	FindByChatWithPagination(ctx context.Context, chatID primitive.ObjectID, filter Filter, limit, offset int) ([]domain.Message, int64, error)
	CountByChat(ctx context.Context, chatID primitive.ObjectID, filter Filter) (int64, error)
}
