package handler

import (
	"compta-pme-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	stockService      service.StockService
	inventaireService service.InventaireService
}

func NewStockHandler(stockService service.StockService, inventaireService service.InventaireService) *StockHandler {
	return &StockHandler{stockService: stockService, inventaireService: inventaireService}
}

// GET /api/v1/societes/:societeId/stock/unites
func (h *StockHandler) GetUnites(c *fiber.Ctx) error {
	return c.JSON(h.stockService.ListUnites())
}

// GET /api/v1/societes/:societeId/stock/produits
func (h *StockHandler) GetProduits(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	produits, err := h.stockService.ListProduits(societeID)
	if err != nil {
		return err
	}
	return c.JSON(produits)
}

// POST /api/v1/societes/:societeId/stock/produits
func (h *StockHandler) CreateProduit(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}

	var req service.ProduitRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	produit, err := h.stockService.CreateProduit(societeID, &req, userID)
	if err != nil {
		return err
	}
	return created(c, "Produit created", produit)
}

// GET /api/v1/societes/:societeId/stock/produits/:id
func (h *StockHandler) GetProduit(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	produit, err := h.stockService.GetProduit(societeID, id)
	if err != nil {
		return err
	}
	return c.JSON(produit)
}

// PATCH /api/v1/societes/:societeId/stock/produits/:id
func (h *StockHandler) UpdateProduit(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.ProduitPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	produit, err := h.stockService.UpdateProduit(societeID, id, &req, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Produit updated", "data": produit})
}

// DELETE /api/v1/societes/:societeId/stock/produits/:id
func (h *StockHandler) DeleteProduit(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.stockService.DeleteProduit(societeID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/societes/:societeId/stock/produits/alerte
func (h *StockHandler) GetProduitsEnAlerte(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	produits, err := h.stockService.GetProduitsEnAlerte(societeID)
	if err != nil {
		return err
	}
	return c.JSON(produits)
}

// NotifierAlertes pushes the alert list to the websocket clients
// POST /api/v1/societes/:societeId/stock/produits/alerte
func (h *StockHandler) NotifierAlertes(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	produits, err := h.stockService.NotifierAlertes(societeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Alertes notified", "data": produits})
}

// GET /api/v1/societes/:societeId/stock/mouvements?produitId=
func (h *StockHandler) GetMouvements(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	var produitID *uuid.UUID
	if raw := c.Query("produitId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errInvalidID.WithDetail("param", "produitId")
		}
		produitID = &id
	}

	mouvements, err := h.stockService.ListMouvements(societeID, produitID)
	if err != nil {
		return err
	}
	return c.JSON(mouvements)
}

// POST /api/v1/societes/:societeId/stock/mouvements
func (h *StockHandler) CreateMouvement(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}

	var req service.MouvementRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	mouvement, err := h.stockService.CreateMouvement(societeID, &req, userID)
	if err != nil {
		return err
	}
	return created(c, "Mouvement recorded", mouvement)
}

// GET /api/v1/societes/:societeId/stock/inventaires
func (h *StockHandler) GetInventaires(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}

	inventaires, err := h.inventaireService.ListInventaires(societeID)
	if err != nil {
		return err
	}
	return c.JSON(inventaires)
}

// POST /api/v1/societes/:societeId/stock/inventaires
func (h *StockHandler) CreateInventaire(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}

	var req service.InventaireRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errInvalidJSON
		}
	}

	inventaire, err := h.inventaireService.CreateInventaire(societeID, &req, userID)
	if err != nil {
		return err
	}
	return created(c, "Inventaire created", inventaire)
}

// GET /api/v1/societes/:societeId/stock/inventaires/:id
func (h *StockHandler) GetInventaire(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	inventaire, err := h.inventaireService.GetInventaire(societeID, id)
	if err != nil {
		return err
	}
	return c.JSON(inventaire)
}

// AjouterLigne records or replaces the count of one product
// POST /api/v1/societes/:societeId/stock/inventaires/:id/lignes
func (h *StockHandler) AjouterLigne(c *fiber.Ctx) error {
	societeID, _, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.LigneInventaireRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	ligne, err := h.inventaireService.AjouterLigneInventaire(societeID, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ligne saved", "data": ligne})
}

// POST /api/v1/societes/:societeId/stock/inventaires/:id/cloturer
func (h *StockHandler) Cloturer(c *fiber.Ctx) error {
	societeID, userID, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	inventaire, err := h.inventaireService.CloturerInventaire(societeID, id, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Inventaire closed", "data": inventaire})
}
