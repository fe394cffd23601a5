// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Eden1011/todo-app-sub000/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")
var ErrDuplicateChatName = errors.New("an active chat with this name already exists in the project")

type mongoChatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	return &mongoChatRepository{collection: db.Collection("chats")}
}

// EnsureIndexes creates the partial unique index backing name uniqueness
// among active chats. A soft-deactivated chat's name falls out of the index
// and may be reused.
func (r *mongoChatRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{
			Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: 1}},
		},
	})
	if err != nil {
		log.Printf("[ChatRepository] Failed to create indexes: %v", err)
		return errors.New("database error creating chat indexes")
	}
	return nil
}

func (r *mongoChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if err := r.validateChatInput(chat); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	chat.ID = primitive.NewObjectID()
	chat.IsActive = true
	chat.LastActivity = now
	chat.CreatedAt = now
	chat.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, chat); err != nil {
		// The partial unique index makes concurrent duplicate creates lose
		// cleanly; both racers map to the same conflict error.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateChatName
		}
		log.Printf("[ChatRepository] Database error during chat creation for project ID %d: %v", chat.ProjectID, err)
		return nil, errors.New("database error creating chat")
	}

	log.Printf("[ChatRepository] Chat created successfully with ID: %s for project: %d", chat.ID.Hex(), chat.ProjectID)
	return chat, nil
}

func (r *mongoChatRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	return r.handleFindError(err, &chat, "FindByID")
}

func (r *mongoChatRepository) FindActiveByProjectAndName(ctx context.Context, projectID int, name string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.collection.FindOne(ctx, bson.M{
		"projectId": projectID,
		"name":      name,
		"isActive":  true,
	}).Decode(&chat)
	return r.handleFindError(err, &chat, "FindActiveByProjectAndName")
}

func (r *mongoChatRepository) FindEarliestActiveByProject(ctx context.Context, projectID int) (*domain.Chat, error) {
	var chat domain.Chat
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	err := r.collection.FindOne(ctx, bson.M{
		"projectId": projectID,
		"isActive":  true,
	}, opts).Decode(&chat)
	return r.handleFindError(err, &chat, "FindEarliestActiveByProject")
}

func (r *mongoChatRepository) ListActiveByProject(ctx context.Context, projectID int) ([]domain.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{
		"projectId": projectID,
		"isActive":  true,
	}, opts)
	if err != nil {
		log.Printf("[ChatRepository] Database error listing chats for project ID %d: %v", projectID, err)
		return nil, errors.New("database error fetching chats")
	}
	defer cursor.Close(ctx)

	var chats []domain.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		log.Printf("[ChatRepository] Cursor error listing chats for project ID %d: %v", projectID, err)
		return nil, errors.New("database error fetching chats")
	}
	return chats, nil
}

// SoftDeactivate marks the chat inactive. Monotonic: already-inactive chats
// read as not found.
func (r *mongoChatRepository) SoftDeactivate(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": true},
		bson.M{"$set": bson.M{
			"isActive":  false,
			"updatedAt": time.Now().UTC(),
		}},
	)
	if err != nil {
		log.Printf("[ChatRepository] Database error deactivating chat ID %s: %v", id.Hex(), err)
		return errors.New("database error deactivating chat")
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	log.Printf("[ChatRepository] Chat deactivated: ID %s", id.Hex())
	return nil
}

// TouchActivity bumps lastActivity so it reflects the most recent visible
// message. Must complete before the triggering send is acknowledged.
func (r *mongoChatRepository) TouchActivity(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"lastActivity": now,
			"updatedAt":    now,
		}},
	)
	if err != nil {
		log.Printf("[ChatRepository] Database error updating activity for chat ID %s: %v", id.Hex(), err)
		return errors.New("database error updating chat activity")
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// validateChatInput - input validation before any write
func (r *mongoChatRepository) validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if chat.ProjectID <= 0 {
		return errors.New("project ID is required")
	}
	if chat.CreatedBy <= 0 {
		return errors.New("creator user ID is required")
	}
	if strings.TrimSpace(chat.Name) == "" {
		return errors.New("chat name cannot be empty")
	}
	if len(chat.Name) > domain.MaxChatNameLength {
		return fmt.Errorf("chat name must be %d characters or less", domain.MaxChatNameLength)
	}
	return nil
}

// handleFindError - secure error handling without data leakage
func (r *mongoChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrChatNotFound
	}
	log.Printf("[ChatRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
