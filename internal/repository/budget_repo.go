package repository

import (
	"compta-pme-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository interface {
	Upsert(budget *model.Budget) error
	FindByYear(societeID uuid.UUID, annee int) (*model.Budget, error)
	FindAll(societeID uuid.UUID) ([]model.Budget, error)
	Delete(societeID uuid.UUID, annee int) (int64, error)
}

type budgetRepo struct {
	db *gorm.DB
}

func NewBudgetRepo(db *gorm.DB) BudgetRepository {
	return &budgetRepo{db}
}

// Upsert inserts the budget or overwrites the amounts of the existing
// (societe_id, annee) row. The ID of the passed struct is not meaningful
// afterwards; re-read with FindByYear.
func (r *budgetRepo) Upsert(budget *model.Budget) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "societe_id"}, {Name: "annee"}},
		DoUpdates: clause.AssignmentColumns([]string{"budget_recettes", "budget_depenses", "updated_at"}),
	}).Create(budget).Error
}

func (r *budgetRepo) FindByYear(societeID uuid.UUID, annee int) (*model.Budget, error) {
	var budget model.Budget
	if err := r.db.First(&budget, "societe_id = ? AND annee = ?", societeID, annee).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepo) FindAll(societeID uuid.UUID) ([]model.Budget, error) {
	var budgets []model.Budget
	err := r.db.Where("societe_id = ?", societeID).Order("annee DESC").Find(&budgets).Error
	return budgets, err
}

func (r *budgetRepo) Delete(societeID uuid.UUID, annee int) (int64, error) {
	res := r.db.Where("societe_id = ? AND annee = ?", societeID, annee).Delete(&model.Budget{})
	return res.RowsAffected, res.Error
}
