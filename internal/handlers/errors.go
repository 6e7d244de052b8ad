package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
)

// respondError maps service sentinels onto transport responses. Anything
// unrecognized is a server error; its detail stays out of the body.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidResetToken):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, services.ErrSessionInvalid),
		errors.Is(err, services.ErrGoogleTokenRejected):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotVerified):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrIntegrity):
		slog.Error("integrity fault surfaced", "method", c.Method(), "path", c.Path(), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "data integrity fault")
	default:
		slog.Error("unhandled service error", "method", c.Method(), "path", c.Path(), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}
