package handler

import (
	"strconv"

	"compta-pme-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TresorerieHandler struct {
	tresorerieService service.TresorerieService
}

func NewTresorerieHandler(tresorerieService service.TresorerieService) *TresorerieHandler {
	return &TresorerieHandler{tresorerieService: tresorerieService}
}

// POST /api/v1/societes/:societeId/recettes
func (h *TresorerieHandler) CreateRecette(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}

	var req service.RecetteRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	recette, err := h.tresorerieService.CreateRecette(societeID, &req, userID)
	if err != nil {
		return err
	}
	return created(c, "Recette recorded", recette)
}

// GET /api/v1/societes/:societeId/recettes?annee=
func (h *TresorerieHandler) GetRecettes(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	annee, err := queryAnnee(c)
	if err != nil {
		return err
	}

	recettes, err := h.tresorerieService.ListRecettes(societeID, annee)
	if err != nil {
		return err
	}
	return c.JSON(recettes)
}

// DELETE /api/v1/societes/:societeId/recettes/:id
func (h *TresorerieHandler) DeleteRecette(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.tresorerieService.DeleteRecette(societeID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/v1/societes/:societeId/depenses
func (h *TresorerieHandler) CreateDepense(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}

	var req service.DepenseRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	depense, err := h.tresorerieService.CreateDepense(societeID, &req, userID)
	if err != nil {
		return err
	}
	return created(c, "Depense recorded", depense)
}

// GET /api/v1/societes/:societeId/depenses?annee=
func (h *TresorerieHandler) GetDepenses(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	annee, err := queryAnnee(c)
	if err != nil {
		return err
	}

	depenses, err := h.tresorerieService.ListDepenses(societeID, annee)
	if err != nil {
		return err
	}
	return c.JSON(depenses)
}

// DELETE /api/v1/societes/:societeId/depenses/:id
func (h *TresorerieHandler) DeleteDepense(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.tresorerieService.DeleteDepense(societeID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func queryAnnee(c *fiber.Ctx) (*int, error) {
	raw := c.Query("annee")
	if raw == "" {
		return nil, nil
	}
	annee, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errInvalidAnnee
	}
	return &annee, nil
}
