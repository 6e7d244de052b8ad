package models

import (
	"time"

	"github.com/google/uuid"
)

// Friend is one direction of a symmetric friendship. Creating a friendship
// writes both directed rows; deleting one must delete its mirror. The unique
// index rejects duplicate directed edges.
type Friend struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friends_user_friend" json:"user_id"`
	FriendID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friends_user_friend" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:FriendID" json:"user,omitempty"`
}
