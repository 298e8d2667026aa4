package repository

import (
	"compta-pme-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository reads and writes clients. Every method is scoped by societeID.
type ClientRepository interface {
	Create(client *model.Client) error
	FindAll(societeID uuid.UUID) ([]model.Client, error)
	FindByID(societeID, id uuid.UUID) (*model.Client, error)
	Update(client *model.Client) error
	Delete(societeID, id uuid.UUID) (int64, error)
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) Create(client *model.Client) error {
	return r.db.Create(client).Error
}

func (r *clientRepo) FindAll(societeID uuid.UUID) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.Where("societe_id = ?", societeID).Order("nom ASC").Find(&clients).Error
	return clients, err
}

func (r *clientRepo) FindByID(societeID, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, "id = ? AND societe_id = ?", id, societeID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(client *model.Client) error {
	return r.db.Model(&model.Client{}).
		Where("id = ? AND societe_id = ?", client.ID, client.SocieteID).
		Select("nom", "adresse", "email", "telephone", "numero_cc", "updated_by", "updated_at").
		Updates(client).Error
}

func (r *clientRepo) Delete(societeID, id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ? AND societe_id = ?", id, societeID).Delete(&model.Client{})
	return res.RowsAffected, res.Error
}
