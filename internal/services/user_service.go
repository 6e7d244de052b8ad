package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tungdtnguyen/messenger-backend/internal/config"
	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/mail"
	"github.com/tungdtnguyen/messenger-backend/internal/models"
	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

type UserService struct {
	db     *gorm.DB
	cfg    *config.Config
	store  storage.ObjectStore
	mailer *mail.Mailer
}

func NewUserService(db *gorm.DB, cfg *config.Config, store storage.ObjectStore, mailer *mail.Mailer) *UserService {
	return &UserService{db: db, cfg: cfg, store: store, mailer: mailer}
}

// Register creates the account, stores a single-use verification token, and
// mails the verification link. avatarKey is the object key of an already
// uploaded avatar, nil when the form had no image part.
func (s *UserService) Register(req *dto.RegisterRequest, avatarKey *string) (*models.User, error) {
	if req.Email == "" || req.Username == "" || len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: email, username and a password of at least 8 characters are required", ErrValidation)
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)
	username := req.Username

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	verifyToken := hex.EncodeToString(raw)

	user := models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     &username,
		PasswordHash: &hashStr,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MiddleName:   req.MiddleName,
		AvatarKey:    avatarKey,
		AuthProvider: "email",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The pre-checks above are advisory; under a concurrent
		// registration the unique index fires here and must still surface
		// as a conflict.
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: email or username already taken", ErrConflict)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return tx.Create(&models.VerificationToken{
			ID:     uuid.New(),
			UserID: user.ID,
			Token:  verifyToken,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.mailer.Send(user.Email, "Verify your email address",
		fmt.Sprintf("Hello %s %s,\n\n"+
			"Welcome! Please confirm your email address by opening:\n\n"+
			"%s/verify?token=%s\n\n"+
			"If you did not create this account, ignore this email.",
			user.FirstName, user.LastName, s.cfg.AppURL, verifyToken))

	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}
	signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &user)
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &users[i])
	}
	return users, nil
}

// Update applies the whitelisted profile fields. Self-only: actorID must
// match the target id.
func (s *UserService) Update(ctx context.Context, actorID, targetID uuid.UUID, req *dto.UpdateUserRequest, avatarKey *string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", targetID).Error; err != nil {
		return nil, ErrNotFound
	}
	if actorID != targetID {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.MiddleName != nil {
		updates["middle_name"] = *req.MiddleName
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrValidation)
		}
		updates["date_of_birth"] = dob
	}
	if avatarKey != nil {
		updates["avatar_key"] = *avatarKey
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &user)
	return &user, nil
}
