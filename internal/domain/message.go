// File: internal/domain/message.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recognized message kinds. System messages are authored by the triggering
// user but are never edited afterwards.
const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
	MessageTypeFile   = "file"
	MessageTypeImage  = "image"
)

const MaxMessageContentLength = 2000

// Message represents one chat event: user text or a system-generated notice.
// Soft-deleted messages stay in storage for export and audit.
type Message struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	ChatID      primitive.ObjectID     `bson:"chatId" json:"chatId"`
	UserID      int                    `bson:"userId" json:"userId"` // external user id
	Content     string                 `bson:"content" json:"content"`
	MessageType string                 `bson:"messageType" json:"messageType"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsEdited    bool                   `bson:"isEdited" json:"isEdited"`
	EditedAt    *time.Time             `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	IsDeleted   bool                   `bson:"isDeleted" json:"isDeleted"`
	DeletedAt   *time.Time             `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// IsValidMessageType reports whether t is one of the recognized kinds.
func IsValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeSystem, MessageTypeFile, MessageTypeImage:
		return true
	}
	return false
}
