package handler

import (
	"compta-pme-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	user, err := h.userService.CreateUser(&req)
	if err != nil {
		return err
	}
	return created(c, "User created successfully", user.ToResponse())
}

// GetUser returns one user without its password hash
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
