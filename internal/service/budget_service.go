package service

import (
	"errors"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrBudgetNotFound = apperror.NewNotFound("budget not found")

type BudgetService interface {
	CreateOrUpdate(societeID uuid.UUID, req *BudgetRequest) (*model.Budget, error)
	List(societeID uuid.UUID) ([]model.Budget, error)
	// GetAvecComparaison returns nil, nil when no budget exists for the year.
	GetAvecComparaison(societeID uuid.UUID, annee int) (*model.BudgetAvecComparaison, error)
	ListAvecComparaison(societeID uuid.UUID) ([]model.BudgetAvecComparaison, error)
	Delete(societeID uuid.UUID, annee int) error
}

type BudgetRequest struct {
	Annee          int             `json:"annee" validate:"required,min=1900,max=2999"`
	BudgetRecettes decimal.Decimal `json:"budget_recettes" validate:"decimal_gte0"`
	BudgetDepenses decimal.Decimal `json:"budget_depenses" validate:"decimal_gte0"`
}

type budgetService struct {
	budgetRepo     repository.BudgetRepository
	tresorerieRepo repository.TresorerieRepository
}

func NewBudgetService(budgetRepo repository.BudgetRepository, tresorerieRepo repository.TresorerieRepository) BudgetService {
	return &budgetService{budgetRepo: budgetRepo, tresorerieRepo: tresorerieRepo}
}

func (s *budgetService) CreateOrUpdate(societeID uuid.UUID, req *BudgetRequest) (*model.Budget, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	budget := &model.Budget{
		SocieteID:      societeID,
		Annee:          req.Annee,
		BudgetRecettes: req.BudgetRecettes,
		BudgetDepenses: req.BudgetDepenses,
	}
	if err := s.budgetRepo.Upsert(budget); err != nil {
		return nil, err
	}
	return s.budgetRepo.FindByYear(societeID, req.Annee)
}

func (s *budgetService) List(societeID uuid.UUID) ([]model.Budget, error) {
	return s.budgetRepo.FindAll(societeID)
}

func (s *budgetService) GetAvecComparaison(societeID uuid.UUID, annee int) (*model.BudgetAvecComparaison, error) {
	budget, err := s.budgetRepo.FindByYear(societeID, annee)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.compare(budget)
}

func (s *budgetService) ListAvecComparaison(societeID uuid.UUID) ([]model.BudgetAvecComparaison, error) {
	budgets, err := s.budgetRepo.FindAll(societeID)
	if err != nil {
		return nil, err
	}

	result := make([]model.BudgetAvecComparaison, 0, len(budgets))
	for i := range budgets {
		comparaison, err := s.compare(&budgets[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *comparaison)
	}
	return result, nil
}

func (s *budgetService) Delete(societeID uuid.UUID, annee int) error {
	affected, err := s.budgetRepo.Delete(societeID, annee)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (s *budgetService) compare(budget *model.Budget) (*model.BudgetAvecComparaison, error) {
	from, to := model.YearBounds(budget.Annee)
	period := repository.Period{From: from, To: to}

	recettes, err := s.tresorerieRepo.SumRecettes(budget.SocieteID, period)
	if err != nil {
		return nil, err
	}
	depenses, err := s.tresorerieRepo.SumDepenses(budget.SocieteID, period)
	if err != nil {
		return nil, err
	}

	comparaison := budget.Compare(recettes, depenses)
	return &comparaison, nil
}
