package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/middleware"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

type ConversationHandler struct {
	convService *services.ConversationService
	store       storage.ObjectStore
}

func NewConversationHandler(convService *services.ConversationService, store storage.ObjectStore) *ConversationHandler {
	return &ConversationHandler{convService: convService, store: store}
}

func (h *ConversationHandler) List(c *fiber.Ctx) error {
	convs, err := h.convService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(convs)
}

func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}

	conv, err := h.convService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(conv)
}

func (h *ConversationHandler) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var imageKey *string
	obj, err := uploadFormFile(c, h.store, "groupImage")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if obj != nil {
		imageKey = &obj.Key
	}

	conv, err := h.convService.Create(c.UserContext(), actor.ID, &req, imageKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conv)
}

func (h *ConversationHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var imageKey *string
	obj, err := uploadFormFile(c, h.store, "groupImage")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if obj != nil {
		imageKey = &obj.Key
	}

	conv, err := h.convService.Update(c.UserContext(), actor.ID, id, &req, imageKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(conv)
}

func (h *ConversationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.convService.Delete(c.UserContext(), actor.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
