// File: internal/repository/message/message_repository.go
package message

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

var ErrMessageNotFound = errors.New("message not found")

type mongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{collection: db.Collection("messages")}
}

func (r *mongoMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	message.ID = primitive.NewObjectID()
	message.IsEdited = false
	message.EditedAt = nil
	message.IsDeleted = false
	message.DeletedAt = nil
	message.CreatedAt = now
	message.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, message); err != nil {
		// Secure logging - no message content exposed
		log.Printf("[MessageRepository] Database error during message creation for chat ID %s: %v", message.ChatID.Hex(), err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

func (r *mongoMessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	var message domain.Message
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] FindByID database error: %v", err)
		return nil, errors.New("database query failed")
	}
	return &message, nil
}

// MarkEdited replaces the content and flags the message edited. Deleted
// messages are invisible to edits.
func (r *mongoMessageRepository) MarkEdited(ctx context.Context, id primitive.ObjectID, content string) (*domain.Message, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Message
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{
			"content":   content,
			"isEdited":  true,
			"editedAt":  now,
			"updatedAt": now,
		}},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] Database error editing message ID %s: %v", id.Hex(), err)
		return nil, errors.New("database error editing message")
	}
	return &updated, nil
}

// SoftDelete flags the message deleted, retaining content for audit.
// Deleting an already-deleted message reads as not found, not re-applied.
func (r *mongoMessageRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Message
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{
			"isDeleted": true,
			"deletedAt": now,
			"updatedAt": now,
		}},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] Database error deleting message ID %s: %v", id.Hex(), err)
		return nil, errors.New("database error deleting message")
	}

	log.Printf("[MessageRepository] Message soft-deleted: ID %s", id.Hex())
	return &updated, nil
}

// FindByChatWithPagination - memory safety: loads one page, counts separately
func (r *mongoMessageRepository) FindByChatWithPagination(ctx context.Context, chatID primitive.ObjectID, filter Filter, limit, offset int) ([]domain.Message, int64, error) {
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	criteria := filter.Criteria(chatID)

	total, err := r.collection.CountDocuments(ctx, criteria)
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for chat ID %s: %v", chatID.Hex(), err)
		return nil, 0, errors.New("database error counting messages")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, criteria, opts)
	if err != nil {
		log.Printf("[MessageRepository] Database error in paginated query for chat ID %s: %v", chatID.Hex(), err)
		return nil, 0, errors.New("database error retrieving messages")
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		log.Printf("[MessageRepository] Cursor error for chat ID %s: %v", chatID.Hex(), err)
		return nil, 0, errors.New("database error retrieving messages")
	}

	return messages, total, nil
}

func (r *mongoMessageRepository) CountByChat(ctx context.Context, chatID primitive.ObjectID, filter Filter) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter.Criteria(chatID))
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for chat ID %s: %v", chatID.Hex(), err)
		return 0, errors.New("database error counting messages")
	}
	return total, nil
}

// validateMessageInput - input validation before any write
func (r *mongoMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ChatID.IsZero() {
		return errors.New("chat ID is required")
	}
	if message.UserID <= 0 {
		return errors.New("user ID is required")
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	if len(message.Content) > domain.MaxMessageContentLength {
		return fmt.Errorf("message content must be %d characters or less", domain.MaxMessageContentLength)
	}
	if !domain.IsValidMessageType(message.MessageType) {
		return fmt.Errorf("unrecognized message type: %s", message.MessageType)
	}
	return nil
}
