package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record. PasswordHash is nil for accounts created by a
// federated identity provider; ResetToken holds the bcrypt hash of the
// currently outstanding password-reset code, nil when none is pending.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username     *string    `gorm:"size:100;uniqueIndex" json:"username"`
	PasswordHash *string    `gorm:"size:255" json:"-"`
	FirstName    string     `gorm:"size:100" json:"first_name"`
	LastName     string     `gorm:"size:100" json:"last_name"`
	MiddleName   string     `gorm:"size:100" json:"middle_name"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	AvatarKey    *string    `gorm:"size:255" json:"avatar_key"`
	AuthProvider string     `gorm:"size:50;default:'email'" json:"-"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	Disabled     bool       `gorm:"default:false" json:"disabled"`
	ResetToken   *string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
