package handler

import (
	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

var errInvalidAnnee = apperror.NewValidation("Invalid annee")

type BudgetHandler struct {
	budgetService service.BudgetService
}

func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateOrUpdate upserts the budget of one year
// POST /api/v1/societes/:societeId/budgets
func (h *BudgetHandler) CreateOrUpdate(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	var req service.BudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	budget, err := h.budgetService.CreateOrUpdate(societeID, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Budget saved", "data": budget})
}

// GET /api/v1/societes/:societeId/budgets
func (h *BudgetHandler) GetBudgets(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	budgets, err := h.budgetService.List(societeID)
	if err != nil {
		return err
	}
	return c.JSON(budgets)
}

// GET /api/v1/societes/:societeId/budgets/comparaison
func (h *BudgetHandler) GetComparaisons(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	comparaisons, err := h.budgetService.ListAvecComparaison(societeID)
	if err != nil {
		return err
	}
	return c.JSON(comparaisons)
}

// GetBudget answers null when no budget exists for the year
// GET /api/v1/societes/:societeId/budgets/:annee
func (h *BudgetHandler) GetBudget(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	annee, err := c.ParamsInt("annee")
	if err != nil {
		return errInvalidAnnee
	}

	comparaison, err := h.budgetService.GetAvecComparaison(societeID, annee)
	if err != nil {
		return err
	}
	return c.JSON(comparaison)
}

// DELETE /api/v1/societes/:societeId/budgets/:annee
func (h *BudgetHandler) DeleteBudget(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	annee, err := c.ParamsInt("annee")
	if err != nil {
		return errInvalidAnnee
	}

	if err := h.budgetService.Delete(societeID, annee); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
