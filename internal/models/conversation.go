package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Title        *string        `gorm:"size:255" json:"title"`
	ImageKey     *string        `gorm:"size:255" json:"image_key"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Participants []Participant  `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
	Messages     []Message      `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// Participant joins a User to a Conversation. The conversation creator is
// inserted with IsAdmin=true at creation time; promotion is one-directional.
type Participant struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ConversationID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_participants_conv_user" json:"conversation_id"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_participants_conv_user" json:"user_id"`
	IsAdmin        bool         `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	User           User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}
