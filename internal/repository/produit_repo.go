package repository

import (
	"compta-pme-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProduitRepository interface {
	Create(produit *model.Produit) error
	FindAll(societeID uuid.UUID) ([]model.Produit, error)
	FindByID(societeID, id uuid.UUID) (*model.Produit, error)
	FindByReference(societeID uuid.UUID, reference string) (*model.Produit, error)
	FindEnAlerte(societeID uuid.UUID) ([]model.Produit, error)
	Update(produit *model.Produit) error
	Delete(tx *gorm.DB, societeID, id uuid.UUID) (int64, error)

	// Transaction-bound helpers used by stock movements.
	FindForUpdate(tx *gorm.DB, societeID, id uuid.UUID) (*model.Produit, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock decimal.Decimal, updatedBy string) error
	InOpenInventaire(tx *gorm.DB, id uuid.UUID) (bool, error)
}

type produitRepo struct {
	db *gorm.DB
}

func NewProduitRepo(db *gorm.DB) ProduitRepository {
	return &produitRepo{db}
}

func (r *produitRepo) Create(produit *model.Produit) error {
	return r.db.Create(produit).Error
}

func (r *produitRepo) FindAll(societeID uuid.UUID) ([]model.Produit, error) {
	var produits []model.Produit
	err := r.db.Where("societe_id = ?", societeID).Order("reference ASC").Find(&produits).Error
	return produits, err
}

func (r *produitRepo) FindByID(societeID, id uuid.UUID) (*model.Produit, error) {
	var produit model.Produit
	if err := r.db.First(&produit, "id = ? AND societe_id = ?", id, societeID).Error; err != nil {
		return nil, err
	}
	return &produit, nil
}

func (r *produitRepo) FindByReference(societeID uuid.UUID, reference string) (*model.Produit, error) {
	var produit model.Produit
	if err := r.db.First(&produit, "societe_id = ? AND reference = ?", societeID, reference).Error; err != nil {
		return nil, err
	}
	return &produit, nil
}

func (r *produitRepo) FindEnAlerte(societeID uuid.UUID) ([]model.Produit, error) {
	var produits []model.Produit
	err := r.db.
		Where("societe_id = ? AND seuil_alerte IS NOT NULL AND quantite_en_stock < seuil_alerte", societeID).
		Order("reference ASC").
		Find(&produits).Error
	return produits, err
}

// Update writes the descriptive columns only. The balance goes through UpdateStock.
func (r *produitRepo) Update(produit *model.Produit) error {
	return r.db.Model(&model.Produit{}).
		Where("id = ? AND societe_id = ?", produit.ID, produit.SocieteID).
		Select("reference", "designation", "unite", "seuil_alerte", "updated_by", "updated_at").
		Updates(produit).Error
}

func (r *produitRepo) Delete(tx *gorm.DB, societeID, id uuid.UUID) (int64, error) {
	res := dbOr(tx, r.db).Where("id = ? AND societe_id = ?", id, societeID).Delete(&model.Produit{})
	return res.RowsAffected, res.Error
}

// FindForUpdate loads the product with a row lock (SELECT ... FOR UPDATE) so
// that concurrent movements on the same product serialize.
func (r *produitRepo) FindForUpdate(tx *gorm.DB, societeID, id uuid.UUID) (*model.Produit, error) {
	var produit model.Produit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&produit, "id = ? AND societe_id = ?", id, societeID).Error
	if err != nil {
		return nil, err
	}
	return &produit, nil
}

// UpdateStock takes the transaction handle: it must run next to the movement insert.
func (r *produitRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock decimal.Decimal, updatedBy string) error {
	return tx.Model(&model.Produit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantite_en_stock": newStock,
			"updated_by":        updatedBy,
		}).Error
}

// InOpenInventaire reports whether the product has a line in an inventory that
// is still BROUILLON.
func (r *produitRepo) InOpenInventaire(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := dbOr(tx, r.db).Model(&model.LigneInventaire{}).
		Joins("JOIN inventaires ON inventaires.id = ligne_inventaires.inventaire_id").
		Where("ligne_inventaires.produit_id = ? AND inventaires.statut = ? AND inventaires.deleted_at IS NULL",
			id, model.InventaireBrouillon).
		Count(&count).Error
	return count > 0, err
}
