package models

import (
	"time"

	"github.com/google/uuid"
)

// Message carries free text plus at most one attachment: either ImageKey or
// FileKey, never both. FileName preserves the original upload name for
// non-image attachments.
type Message struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ConversationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"sender_id"`
	Body           string       `gorm:"type:text" json:"message"`
	ImageKey       *string      `gorm:"size:255" json:"image_url"`
	FileKey        *string      `gorm:"size:255" json:"file_url"`
	FileName       *string      `gorm:"size:255" json:"file_name"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Sender         User         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}
