package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/middleware"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

type UserHandler struct {
	userService *services.UserService
	store       storage.ObjectStore
}

func NewUserHandler(userService *services.UserService, store storage.ObjectStore) *UserHandler {
	return &UserHandler{userService: userService, store: store}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}

	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Register handles multipart account creation; the avatar arrives in the
// avatarImage part when present.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var avatarKey *string
	obj, err := uploadFormFile(c, h.store, "avatarImage")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if obj != nil {
		avatarKey = &obj.Key
	}

	user, err := h.userService.Register(&req, avatarKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "malformatted id")
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var avatarKey *string
	obj, err := uploadFormFile(c, h.store, "avatarImage")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if obj != nil {
		avatarKey = &obj.Key
	}

	user, err := h.userService.Update(c.UserContext(), actor.ID, targetID, &req, avatarKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
