package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/config"
	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/models"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
)

// JWTProtected verifies the bearer token's signature and expiry. Malformed
// and expired tokens get distinct messages; both reject before any business
// logic runs.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: message,
			})
		},
	})
}

// SessionRequired runs after JWTProtected and enforces the single-active-
// session policy: the presented token must exactly match the one session row
// for the user, and the account must not be disabled. A login elsewhere
// replaces the row and silently invalidates this token.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c, "invalid token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "invalid claims")
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return unauthorized(c, "invalid claims")
		}

		user, err := authService.ValidateSession(userID, token.Raw)
		if err != nil {
			if errors.Is(err, services.ErrAccountDisabled) {
				return unauthorized(c, "user has been disabled")
			}
			return unauthorized(c, "session not valid")
		}

		c.Locals("currentUser", user)
		return c.Next()
	}
}

// CurrentUser returns the account loaded by SessionRequired, nil on routes
// that did not run it.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
