package repository

import (
	"compta-pme-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MouvementRepository interface {
	Create(tx *gorm.DB, mouvement *model.MouvementStock) error
	FindAll(societeID uuid.UUID, produitID *uuid.UUID) ([]model.MouvementStock, error)
}

type mouvementRepo struct {
	db *gorm.DB
}

func NewMouvementRepo(db *gorm.DB) MouvementRepository {
	return &mouvementRepo{db}
}

func (r *mouvementRepo) Create(tx *gorm.DB, mouvement *model.MouvementStock) error {
	return dbOr(tx, r.db).Omit("Produit").Create(mouvement).Error
}

func (r *mouvementRepo) FindAll(societeID uuid.UUID, produitID *uuid.UUID) ([]model.MouvementStock, error) {
	var mouvements []model.MouvementStock
	q := r.db.Preload("Produit").Where("societe_id = ?", societeID)
	if produitID != nil {
		q = q.Where("produit_id = ?", *produitID)
	}
	err := q.Order("date DESC").Order("created_at DESC").Find(&mouvements).Error
	return mouvements, err
}
