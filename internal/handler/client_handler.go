package handler

import (
	"compta-pme-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// GET /api/v1/societes/:societeId/clients
func (h *ClientHandler) GetClients(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	clients, err := h.clientService.List(societeID)
	if err != nil {
		return err
	}
	return c.JSON(clients)
}

// POST /api/v1/societes/:societeId/clients
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}

	var req service.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	client, err := h.clientService.Create(societeID, &req, userID)
	if err != nil {
		return err
	}
	return created(c, "Client created", client)
}

// GET /api/v1/societes/:societeId/clients/:id
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	client, err := h.clientService.Get(societeID, id)
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// PATCH /api/v1/societes/:societeId/clients/:id
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.ClientPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	client, err := h.clientService.Update(societeID, id, &req, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Client updated", "data": client})
}

// DELETE /api/v1/societes/:societeId/clients/:id
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.clientService.Delete(societeID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
