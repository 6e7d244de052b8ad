package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/middleware"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.AccessToken == "" {
		return errorJSON(c, fiber.StatusBadRequest, "access_token is required")
	}

	resp, err := h.authService.GoogleSignIn(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if err := h.authService.Logout(user.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Successfully logged out"})
}

func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.RequestResetRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Input == "" {
		return errorJSON(c, fiber.StatusBadRequest, "input is required")
	}

	if err := h.authService.RequestPasswordReset(req.Input); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Token was sent successfully"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(req.Password) < 8 {
		return errorJSON(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successfully"})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Token == "" {
		return errorJSON(c, fiber.StatusBadRequest, "token is required")
	}

	if err := h.authService.VerifyEmail(req.Token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Email verified successfully"})
}
