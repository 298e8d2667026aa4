package repository

import (
	"compta-pme-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SocieteRepository interface {
	Create(tx *gorm.DB, societe *model.Societe) error
	FindByID(id uuid.UUID) (*model.Societe, error)
	FindByOwner(ownerID uuid.UUID) ([]model.Societe, error)
	FindAll() ([]model.Societe, error)
	IsOwnedBy(societeID, userID uuid.UUID) (bool, error)
}

type societeRepo struct {
	db *gorm.DB
}

func NewSocieteRepo(db *gorm.DB) SocieteRepository {
	return &societeRepo{db}
}

func (r *societeRepo) Create(tx *gorm.DB, societe *model.Societe) error {
	return dbOr(tx, r.db).Create(societe).Error
}

func (r *societeRepo) FindByID(id uuid.UUID) (*model.Societe, error) {
	var societe model.Societe
	if err := r.db.First(&societe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &societe, nil
}

func (r *societeRepo) FindByOwner(ownerID uuid.UUID) ([]model.Societe, error) {
	var societes []model.Societe
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&societes).Error
	return societes, err
}

func (r *societeRepo) FindAll() ([]model.Societe, error) {
	var societes []model.Societe
	err := r.db.Order("created_at ASC").Find(&societes).Error
	return societes, err
}

func (r *societeRepo) IsOwnedBy(societeID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Societe{}).
		Where("id = ? AND owner_id = ?", societeID, userID).
		Count(&count).Error
	return count > 0, err
}
