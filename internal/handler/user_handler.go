package handler

import (
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService service.UserService
	log         *logrus.Logger
}

func NewUserHandler(userService service.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.CreateUser(actorFrom(c), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user.ToResponse(),
	})
}

// GetUsers returns the users of a store
// GET /api/v1/users?store_id
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	users, err := h.userService.GetAllUsers(actorFrom(c), storeID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(users)
}

// GetUser returns a single user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.userService.GetUserByID(actorFrom(c), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(user)
}
