package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/middleware"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

type MessageHandler struct {
	messageService *services.MessageService
	store          storage.ObjectStore
}

func NewMessageHandler(messageService *services.MessageService, store storage.ObjectStore) *MessageHandler {
	return &MessageHandler{messageService: messageService, store: store}
}

// ListByConversation returns the message history for a conversation id.
func (h *MessageHandler) ListByConversation(c *fiber.Ctx) error {
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}

	messages, err := h.messageService.ListByConversation(c.UserContext(), convID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(messages)
}

// Create accepts multipart form data; an optional messageImage part becomes
// either the image or the generic-file attachment based on content type.
func (h *MessageHandler) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var attachment *services.Attachment
	obj, err := uploadFormFile(c, h.store, "messageImage")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if obj != nil {
		attachment = &services.Attachment{
			Key:      obj.Key,
			FileName: obj.FileName,
			IsImage:  obj.isImage(),
		}
	}

	msg, err := h.messageService.Create(c.UserContext(), actor.ID, &req, attachment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) Update(c *fiber.Ctx) error {
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	msg, err := h.messageService.Update(c.UserContext(), actor.ID, messageID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msg)
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.messageService.Delete(c.UserContext(), actor.ID, messageID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
