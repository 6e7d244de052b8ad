package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/middleware"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
)

type ParticipantHandler struct {
	participantService *services.ParticipantService
}

func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// ListByConversation returns the participant rows for a conversation id.
func (h *ParticipantHandler) ListByConversation(c *fiber.Ctx) error {
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}

	participants, err := h.participantService.ListByConversation(c.UserContext(), convID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(participants)
}

func (h *ParticipantHandler) Add(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.AddParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" {
		return errorJSON(c, fiber.StatusBadRequest, "email is required")
	}

	participant, err := h.participantService.Add(c.UserContext(), actor.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(participant)
}

func (h *ParticipantHandler) Promote(c *fiber.Ctx) error {
	participantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	participant, err := h.participantService.Promote(c.UserContext(), actor.ID, participantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(participant)
}

func (h *ParticipantHandler) Remove(c *fiber.Ctx) error {
	participantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.participantService.Remove(c.UserContext(), actor.ID, participantID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
