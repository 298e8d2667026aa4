package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/metrics"
	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"
	"compta-pme-api/internal/ws"
	"compta-pme-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProduitNotFound     = apperror.NewNotFound("produit not found")
	ErrReferenceExists     = apperror.NewConflict("reference already exists")
	ErrUnknownUnite        = apperror.NewValidation("unknown unite")
	ErrQuantiteInvalide    = apperror.NewValidation("quantite must be greater than zero")
	ErrInsufficientStock   = apperror.NewBusinessRule(apperror.CodeInsufficient, "insufficient stock")
	ErrProduitEnInventaire = apperror.NewBusinessRule(apperror.CodeBusinessRule, "produit is counted in an open inventaire")
)

type StockService interface {
	ListUnites() []string

	CreateProduit(societeID uuid.UUID, req *ProduitRequest, userID string) (*model.Produit, error)
	ListProduits(societeID uuid.UUID) ([]model.Produit, error)
	GetProduit(societeID, id uuid.UUID) (*model.Produit, error)
	UpdateProduit(societeID, id uuid.UUID, req *ProduitPatchRequest, userID string) (*model.Produit, error)
	DeleteProduit(societeID, id uuid.UUID) error
	GetProduitsEnAlerte(societeID uuid.UUID) ([]model.Produit, error)
	NotifierAlertes(societeID uuid.UUID) ([]model.Produit, error)

	CreateMouvement(societeID uuid.UUID, req *MouvementRequest, userID string) (*model.MouvementStock, error)
	ListMouvements(societeID uuid.UUID, produitID *uuid.UUID) ([]model.MouvementStock, error)
}

type ProduitRequest struct {
	Reference   string           `json:"reference" validate:"required,max=50"`
	Designation string           `json:"designation" validate:"required,max=255"`
	Unite       string           `json:"unite"`
	SeuilAlerte *decimal.Decimal `json:"seuil_alerte" validate:"omitempty,decimal_gte0"`
}

// ProduitPatchRequest never carries the balance: it only moves through movements.
type ProduitPatchRequest struct {
	Reference   *string          `json:"reference" validate:"omitempty,min=1,max=50"`
	Designation *string          `json:"designation" validate:"omitempty,min=1,max=255"`
	Unite       *string          `json:"unite"`
	SeuilAlerte *decimal.Decimal `json:"seuil_alerte" validate:"omitempty,decimal_gte0"`
}

type MouvementRequest struct {
	ProduitID uuid.UUID           `json:"produit_id" validate:"uuid_required"`
	Type      model.TypeMouvement `json:"type" validate:"required,oneof=ENTREE SORTIE"`
	Quantite  decimal.Decimal     `json:"quantite"`
	Date      *time.Time          `json:"date"`
	Libelle   string              `json:"libelle" validate:"max=255"`
}

type stockService struct {
	db            *gorm.DB
	produitRepo   repository.ProduitRepository
	mouvementRepo repository.MouvementRepository
	ledger        *stockLedger
	wsHub         *ws.Hub
	log           *logger.Logger
}

func NewStockService(db *gorm.DB, produitRepo repository.ProduitRepository, mouvementRepo repository.MouvementRepository, hub *ws.Hub, log *logger.Logger) StockService {
	return &stockService{
		db:            db,
		produitRepo:   produitRepo,
		mouvementRepo: mouvementRepo,
		ledger:        &stockLedger{produitRepo: produitRepo, mouvementRepo: mouvementRepo},
		wsHub:         hub,
		log:           log.WithComponent("stock"),
	}
}

func (s *stockService) ListUnites() []string {
	unites := make([]string, len(model.Unites))
	copy(unites, model.Unites)
	return unites
}

func (s *stockService) CreateProduit(societeID uuid.UUID, req *ProduitRequest, userID string) (*model.Produit, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	unite, err := normalizeUnite(req.Unite)
	if err != nil {
		return nil, err
	}

	reference := model.NormalizeReference(req.Reference)
	if err := s.checkReference(societeID, reference, uuid.Nil); err != nil {
		return nil, err
	}

	produit := &model.Produit{
		SocieteID:       societeID,
		Reference:       reference,
		Designation:     strings.TrimSpace(req.Designation),
		Unite:           unite,
		QuantiteEnStock: decimal.Zero,
		SeuilAlerte:     req.SeuilAlerte,
	}
	produit.Touch(userID)

	if err := s.produitRepo.Create(produit); err != nil {
		return nil, err
	}
	return produit, nil
}

func (s *stockService) ListProduits(societeID uuid.UUID) ([]model.Produit, error) {
	return s.produitRepo.FindAll(societeID)
}

func (s *stockService) GetProduit(societeID, id uuid.UUID) (*model.Produit, error) {
	produit, err := s.produitRepo.FindByID(societeID, id)
	if err != nil {
		return nil, notFoundOr(err, ErrProduitNotFound)
	}
	return produit, nil
}

func (s *stockService) UpdateProduit(societeID, id uuid.UUID, req *ProduitPatchRequest, userID string) (*model.Produit, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	produit, err := s.GetProduit(societeID, id)
	if err != nil {
		return nil, err
	}

	if req.Reference != nil {
		reference := model.NormalizeReference(*req.Reference)
		if err := s.checkReference(societeID, reference, produit.ID); err != nil {
			return nil, err
		}
		produit.Reference = reference
	}
	if req.Designation != nil {
		produit.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Unite != nil {
		unite, err := normalizeUnite(*req.Unite)
		if err != nil {
			return nil, err
		}
		produit.Unite = unite
	}
	if req.SeuilAlerte != nil {
		produit.SeuilAlerte = req.SeuilAlerte
	}
	produit.UpdatedBy = userID

	if err := s.produitRepo.Update(produit); err != nil {
		return nil, err
	}
	return s.GetProduit(societeID, id)
}

// DeleteProduit refuses products counted in a BROUILLON inventory: closing it
// needs the product to post the compensating movement.
func (s *stockService) DeleteProduit(societeID, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.produitRepo.FindForUpdate(tx, societeID, id); err != nil {
			return notFoundOr(err, ErrProduitNotFound)
		}

		open, err := s.produitRepo.InOpenInventaire(tx, id)
		if err != nil {
			return err
		}
		if open {
			return ErrProduitEnInventaire
		}

		affected, err := s.produitRepo.Delete(tx, societeID, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrProduitNotFound
		}
		return nil
	})
}

func (s *stockService) GetProduitsEnAlerte(societeID uuid.UUID) ([]model.Produit, error) {
	return s.produitRepo.FindEnAlerte(societeID)
}

// NotifierAlertes pushes the current alert list to connected clients.
func (s *stockService) NotifierAlertes(societeID uuid.UUID) ([]model.Produit, error) {
	produits, err := s.produitRepo.FindEnAlerte(societeID)
	if err != nil {
		return nil, err
	}
	if len(produits) > 0 {
		s.wsHub.Publish(AlerteEvent(societeID, produits))
	}
	return produits, nil
}

func (s *stockService) CreateMouvement(societeID uuid.UUID, req *MouvementRequest, userID string) (*model.MouvementStock, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !req.Quantite.IsPositive() {
		return nil, ErrQuantiteInvalide
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	mouvement := &model.MouvementStock{
		SocieteID: societeID,
		ProduitID: req.ProduitID,
		Type:      req.Type,
		Quantite:  req.Quantite,
		Date:      date,
		Libelle:   strings.TrimSpace(req.Libelle),
	}
	mouvement.Touch(userID)

	var produit *model.Produit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		produit, err = s.produitRepo.FindForUpdate(tx, societeID, req.ProduitID)
		if err != nil {
			return notFoundOr(err, ErrProduitNotFound)
		}
		return s.ledger.record(tx, produit, mouvement)
	})
	if err != nil {
		return nil, err
	}

	metrics.MouvementsStock.WithLabelValues(string(mouvement.Type)).Inc()
	s.log.Debugw("mouvement recorded", "societe_id", societeID, "produit_id", produit.ID, "type", mouvement.Type, "balance", produit.QuantiteEnStock)
	mouvement.Produit = produit

	s.wsHub.Publish(ws.Event{
		Type:      "stock_update",
		SocieteID: societeID.String(),
		Message:   fmt.Sprintf("%s %s %s", mouvement.Type, mouvement.Quantite.String(), produit.Reference),
		Data: map[string]any{
			"produit_id":        produit.ID,
			"reference":         produit.Reference,
			"quantite_en_stock": produit.QuantiteEnStock,
			"mouvement_id":      mouvement.ID,
		},
	})
	if produit.EnAlerte() {
		s.wsHub.Publish(AlerteEvent(societeID, []model.Produit{*produit}))
	}
	return mouvement, nil
}

func (s *stockService) ListMouvements(societeID uuid.UUID, produitID *uuid.UUID) ([]model.MouvementStock, error) {
	return s.mouvementRepo.FindAll(societeID, produitID)
}

// checkReference fails when another live product of the société already
// uses reference. self is excluded so an update can keep its own reference.
func (s *stockService) checkReference(societeID uuid.UUID, reference string, self uuid.UUID) error {
	existing, err := s.produitRepo.FindByReference(societeID, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrReferenceExists.WithDetail("reference", reference)
	}
	return nil
}

func normalizeUnite(unite string) (string, error) {
	unite = strings.ToUpper(strings.TrimSpace(unite))
	if unite == "" {
		return model.DefaultUnite, nil
	}
	if !model.IsUnite(unite) {
		return "", ErrUnknownUnite.WithDetail("unites", model.Unites)
	}
	return unite, nil
}

// AlerteEvent builds the websocket payload listing products under their threshold.
func AlerteEvent(societeID uuid.UUID, produits []model.Produit) ws.Event {
	items := make([]map[string]any, 0, len(produits))
	for _, p := range produits {
		items = append(items, map[string]any{
			"produit_id":        p.ID,
			"reference":         p.Reference,
			"designation":       p.Designation,
			"quantite_en_stock": p.QuantiteEnStock,
			"seuil_alerte":      p.SeuilAlerte,
		})
	}
	return ws.Event{
		Type:      "stock_alerte",
		SocieteID: societeID.String(),
		Message:   fmt.Sprintf("%d produit(s) sous le seuil d'alerte", len(produits)),
		Data:      items,
	}
}

// stockLedger is the only writer of Produit.QuantiteEnStock. Each call
// inserts one movement and moves the balance inside the caller's transaction;
// the produit must have been loaded with FindForUpdate on the same tx.
type stockLedger struct {
	produitRepo   repository.ProduitRepository
	mouvementRepo repository.MouvementRepository
}

func (l *stockLedger) record(tx *gorm.DB, produit *model.Produit, mouvement *model.MouvementStock) error {
	balance := mouvement.Apply(produit.QuantiteEnStock)
	if balance.IsNegative() {
		return ErrInsufficientStock.
			WithDetail("reference", produit.Reference).
			WithDetail("disponible", produit.QuantiteEnStock)
	}

	if err := l.produitRepo.UpdateStock(tx, produit.ID, balance, mouvement.UpdatedBy); err != nil {
		return err
	}
	if err := l.mouvementRepo.Create(tx, mouvement); err != nil {
		return err
	}
	produit.QuantiteEnStock = balance
	return nil
}
