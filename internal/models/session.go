package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single live credential for a user. The unique index on
// UserID is what enforces the at-most-one-session invariant at the schema
// level; login replaces the row inside one transaction.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
