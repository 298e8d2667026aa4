package service

import (
	"strings"
	"time"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRecetteNotFound = apperror.NewNotFound("recette not found")
	ErrDepenseNotFound = apperror.NewNotFound("depense not found")
)

// TresorerieService records the cash movements that budgets are compared against.
type TresorerieService interface {
	CreateRecette(societeID uuid.UUID, req *RecetteRequest, userID string) (*model.Recette, error)
	ListRecettes(societeID uuid.UUID, annee *int) ([]model.Recette, error)
	DeleteRecette(societeID, id uuid.UUID) error

	CreateDepense(societeID uuid.UUID, req *DepenseRequest, userID string) (*model.Depense, error)
	ListDepenses(societeID uuid.UUID, annee *int) ([]model.Depense, error)
	DeleteDepense(societeID, id uuid.UUID) error
}

type RecetteRequest struct {
	Date     time.Time       `json:"date" validate:"required"`
	Montant  decimal.Decimal `json:"montant" validate:"decimal_gt0"`
	Libelle  string          `json:"libelle" validate:"required,max=255"`
	ClientID *uuid.UUID      `json:"client_id"`
}

type DepenseRequest struct {
	Date      time.Time       `json:"date" validate:"required"`
	Montant   decimal.Decimal `json:"montant" validate:"decimal_gt0"`
	Libelle   string          `json:"libelle" validate:"required,max=255"`
	Categorie string          `json:"categorie" validate:"max=100"`
}

type tresorerieService struct {
	tresorerieRepo repository.TresorerieRepository
	clientRepo     repository.ClientRepository
}

func NewTresorerieService(tresorerieRepo repository.TresorerieRepository, clientRepo repository.ClientRepository) TresorerieService {
	return &tresorerieService{tresorerieRepo: tresorerieRepo, clientRepo: clientRepo}
}

func (s *tresorerieService) CreateRecette(societeID uuid.UUID, req *RecetteRequest, userID string) (*model.Recette, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if _, err := s.clientRepo.FindByID(societeID, *req.ClientID); err != nil {
			return nil, notFoundOr(err, ErrClientNotFound)
		}
	}

	recette := &model.Recette{
		SocieteID: societeID,
		Date:      req.Date.UTC(),
		Montant:   req.Montant,
		Libelle:   strings.TrimSpace(req.Libelle),
		ClientID:  req.ClientID,
	}
	recette.Touch(userID)

	if err := s.tresorerieRepo.CreateRecette(recette); err != nil {
		return nil, err
	}
	return recette, nil
}

func (s *tresorerieService) ListRecettes(societeID uuid.UUID, annee *int) ([]model.Recette, error) {
	return s.tresorerieRepo.FindRecettes(societeID, yearPeriod(annee))
}

func (s *tresorerieService) DeleteRecette(societeID, id uuid.UUID) error {
	affected, err := s.tresorerieRepo.DeleteRecette(societeID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecetteNotFound
	}
	return nil
}

func (s *tresorerieService) CreateDepense(societeID uuid.UUID, req *DepenseRequest, userID string) (*model.Depense, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	depense := &model.Depense{
		SocieteID: societeID,
		Date:      req.Date.UTC(),
		Montant:   req.Montant,
		Libelle:   strings.TrimSpace(req.Libelle),
		Categorie: strings.TrimSpace(req.Categorie),
	}
	depense.Touch(userID)

	if err := s.tresorerieRepo.CreateDepense(depense); err != nil {
		return nil, err
	}
	return depense, nil
}

func (s *tresorerieService) ListDepenses(societeID uuid.UUID, annee *int) ([]model.Depense, error) {
	return s.tresorerieRepo.FindDepenses(societeID, yearPeriod(annee))
}

func (s *tresorerieService) DeleteDepense(societeID, id uuid.UUID) error {
	affected, err := s.tresorerieRepo.DeleteDepense(societeID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDepenseNotFound
	}
	return nil
}

func yearPeriod(annee *int) *repository.Period {
	if annee == nil {
		return nil
	}
	from, to := model.YearBounds(*annee)
	return &repository.Period{From: from, To: to}
}
