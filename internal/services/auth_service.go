package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tungdtnguyen/messenger-backend/internal/config"
	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/mail"
	"github.com/tungdtnguyen/messenger-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("user has been disabled")
	ErrSessionInvalid     = errors.New("session not valid")
	ErrNotVerified        = errors.New("email address was not verified")
	ErrInvalidResetToken  = errors.New("invalid or consumed token")
)

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	google *GoogleClient
	mailer *mail.Mailer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, mailer *mail.Mailer) *AuthService {
	return &AuthService{
		db:     db,
		cfg:    cfg,
		google: NewGoogleClient(),
		mailer: mailer,
	}
}

// Login verifies the password and replaces the user's session row with a
// fresh one. Delete and create run inside one transaction so there is never
// a moment with zero or two sessions for the user; the unique index on
// sessions.user_id backstops any race two concurrent logins could open.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, ErrAccountDisabled
	}

	return s.openSession(&user)
}

// GoogleSignIn resolves the access token to a Google profile, provisions a
// verified password-less account on first login, and opens a session exactly
// like a password login does.
func (s *AuthService) GoogleSignIn(req *dto.GoogleSignInRequest) (*dto.LoginResponse, error) {
	info, err := s.google.FetchUserInfo(req.AccessToken)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.Where("email = ?", info.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		avatar := info.Picture
		user = models.User{
			ID:           uuid.New(),
			Email:        info.Email,
			FirstName:    info.GivenName,
			LastName:     info.FamilyName,
			AuthProvider: "google",
			IsVerified:   true,
		}
		if avatar != "" {
			user.AvatarKey = &avatar
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create federated user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.Disabled {
		return nil, ErrAccountDisabled
	}

	return s.openSession(&user)
}

// Logout deletes the session row. The bearer token keeps its signature until
// expiry but no longer matches any stored session, so validation fails.
func (s *AuthService) Logout(userID uuid.UUID) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// ValidateSession fails closed: a missing row, a token mismatch, or a
// disabled account all invalidate the request.
func (s *AuthService) ValidateSession(userID uuid.UUID, token string) (*models.User, error) {
	var session models.Session
	if err := s.db.Where("user_id = ?", userID).First(&session).Error; err != nil {
		return nil, ErrSessionInvalid
	}
	if session.Token != token {
		return nil, ErrSessionInvalid
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrSessionInvalid
	}
	if user.Disabled {
		return nil, ErrAccountDisabled
	}
	return &user, nil
}

// RequestPasswordReset issues a single-use reset code, stores its bcrypt
// hash on the user, and mails the raw code. Input may be an email address or
// a username.
func (s *AuthService) RequestPasswordReset(input string) error {
	query := "username = ?"
	if strings.Contains(input, "@") {
		query = "email = ?"
	}

	var user models.User
	if err := s.db.Where(query, input).First(&user).Error; err != nil {
		return ErrNotFound
	}
	if !user.IsVerified {
		return ErrNotVerified
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash reset token: %w", err)
	}
	hashStr := string(hash)
	if err := s.db.Model(&user).Update("reset_token", &hashStr).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.mailer.Send(user.Email, "Password reset request",
		fmt.Sprintf("Hello %s %s,\n\n"+
			"We received a request to reset the password for your account. "+
			"Your verification code:\n\n%s\n\n"+
			"Reset link: %s/reset-password?id=%s\n\n"+
			"If you did not request a reset, ignore this email.",
			user.FirstName, user.LastName, token, s.cfg.AppURL, user.ID))
	return nil
}

// ResetPassword consumes the reset token and swaps the password hash in a
// single row update, so the token cannot be replayed.
func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", req.ID).Error; err != nil {
		return ErrNotFound
	}
	if req.Token == "" || user.ResetToken == nil {
		return ErrInvalidResetToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.ResetToken), []byte(req.Token)); err != nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// The consuming update is predicated on the stored token hash: of two
	// concurrent submissions, the loser matches zero rows.
	res := s.db.Model(&models.User{}).
		Where("id = ? AND reset_token = ?", user.ID, *user.ResetToken).
		Updates(map[string]interface{}{
			"reset_token":   nil,
			"password_hash": string(hash),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidResetToken
	}
	return nil
}

// VerifyEmail consumes the single-use verification token. The delete and the
// flag update share one transaction; under concurrent double-submission only
// the request that actually deleted the row wins.
func (s *AuthService) VerifyEmail(token string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var record models.VerificationToken
		if err := tx.Where("token = ?", token).First(&record).Error; err != nil {
			return ErrInvalidResetToken
		}
		res := tx.Where("id = ?", record.ID).Delete(&models.VerificationToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidResetToken
		}
		return tx.Model(&models.User{}).Where("id = ?", record.UserID).
			Update("is_verified", true).Error
	})
}

// openSession signs a fresh token and atomically replaces any prior session.
func (s *AuthService) openSession(user *models.User) (*dto.LoginResponse, error) {
	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Session{
			ID:     uuid.New(),
			UserID: user.ID,
			Token:  token,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace session: %w", err)
	}

	username := ""
	if user.Username != nil {
		username = *user.Username
	}
	return &dto.LoginResponse{
		ID:       user.ID,
		Token:    token,
		Username: username,
		Email:    user.Email,
	}, nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
