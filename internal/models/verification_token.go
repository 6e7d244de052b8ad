package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationToken is the single-use email-verification credential created
// at registration. It is deleted in the same transaction that marks the user
// verified, so concurrent double-submission cannot replay it.
type VerificationToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
