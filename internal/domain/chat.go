// File: internal/domain/chat.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat represents a project-scoped conversation.
// Name is unique among active chats of the same project; a soft-deleted
// chat's name may be reused.
type Chat struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID    int                `bson:"projectId" json:"projectId"` // owning project in the task service
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedBy    int                `bson:"createdBy" json:"createdBy"` // external user id
	LastActivity time.Time          `bson:"lastActivity" json:"lastActivity"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const MaxChatNameLength = 100
