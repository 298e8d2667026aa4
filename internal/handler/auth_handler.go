package handler

import (
	"compta-pme-api/internal/middleware"
	"compta-pme-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a PME account together with its société
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterPmeRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	response, err := h.authService.RegisterPme(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// RegisterExpert creates an accounting expert account
// POST /api/v1/auth/register-expert
func (h *AuthHandler) RegisterExpert(c *fiber.Ctx) error {
	var req service.RegisterExpertRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	response, err := h.authService.RegisterExpert(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// Me returns the authenticated user and the sociétés they own
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	response, err := h.authService.Me(userID)
	if err != nil {
		return err
	}
	return c.JSON(response)
}
