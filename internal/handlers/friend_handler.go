package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/middleware"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
)

type FriendHandler struct {
	friendService *services.FriendService
}

func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// ListByUser returns the outgoing friend edges of a user id.
func (h *FriendHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}

	friends, err := h.friendService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(friends)
}

func (h *FriendHandler) Add(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.AddFriendRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	edge, err := h.friendService.Add(c.UserContext(), actor.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(edge)
}

func (h *FriendHandler) Delete(c *fiber.Ctx) error {
	edgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.friendService.Delete(c.UserContext(), actor.ID, edgeID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
