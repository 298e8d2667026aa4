package repository

import (
	"time"

	"compta-pme-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TresorerieRepository stores Recettes and Depenses and sums them per period.
type TresorerieRepository interface {
	CreateRecette(recette *model.Recette) error
	FindRecettes(societeID uuid.UUID, period *Period) ([]model.Recette, error)
	DeleteRecette(societeID, id uuid.UUID) (int64, error)
	SumRecettes(societeID uuid.UUID, period Period) (decimal.Decimal, error)

	CreateDepense(depense *model.Depense) error
	FindDepenses(societeID uuid.UUID, period *Period) ([]model.Depense, error)
	DeleteDepense(societeID, id uuid.UUID) (int64, error)
	SumDepenses(societeID uuid.UUID, period Period) (decimal.Decimal, error)
}

// Period is a half-open date interval [From, To).
type Period struct {
	From time.Time
	To   time.Time
}

type tresorerieRepo struct {
	db *gorm.DB
}

func NewTresorerieRepo(db *gorm.DB) TresorerieRepository {
	return &tresorerieRepo{db}
}

func (r *tresorerieRepo) CreateRecette(recette *model.Recette) error {
	return r.db.Create(recette).Error
}

func (r *tresorerieRepo) FindRecettes(societeID uuid.UUID, period *Period) ([]model.Recette, error) {
	var recettes []model.Recette
	err := r.scoped(societeID, period).Preload("Client").Order("date DESC").Find(&recettes).Error
	return recettes, err
}

func (r *tresorerieRepo) DeleteRecette(societeID, id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ? AND societe_id = ?", id, societeID).Delete(&model.Recette{})
	return res.RowsAffected, res.Error
}

func (r *tresorerieRepo) SumRecettes(societeID uuid.UUID, period Period) (decimal.Decimal, error) {
	return r.sum(&model.Recette{}, societeID, period)
}

func (r *tresorerieRepo) CreateDepense(depense *model.Depense) error {
	return r.db.Create(depense).Error
}

func (r *tresorerieRepo) FindDepenses(societeID uuid.UUID, period *Period) ([]model.Depense, error) {
	var depenses []model.Depense
	err := r.scoped(societeID, period).Order("date DESC").Find(&depenses).Error
	return depenses, err
}

func (r *tresorerieRepo) DeleteDepense(societeID, id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ? AND societe_id = ?", id, societeID).Delete(&model.Depense{})
	return res.RowsAffected, res.Error
}

func (r *tresorerieRepo) SumDepenses(societeID uuid.UUID, period Period) (decimal.Decimal, error) {
	return r.sum(&model.Depense{}, societeID, period)
}

func (r *tresorerieRepo) scoped(societeID uuid.UUID, period *Period) *gorm.DB {
	q := r.db.Where("societe_id = ?", societeID)
	if period != nil {
		q = q.Where("date >= ? AND date < ?", period.From, period.To)
	}
	return q
}

type sumRow struct {
	Total decimal.Decimal
}

func (r *tresorerieRepo) sum(table interface{}, societeID uuid.UUID, period Period) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.Model(table).
		Select("COALESCE(SUM(montant), 0) AS total").
		Where("societe_id = ? AND date >= ? AND date < ?", societeID, period.From, period.To).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	// SQLite sums NUMERIC columns as floats.
	return row.Total.Round(2), nil
}
