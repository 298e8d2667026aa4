package repository

import (
	"compta-pme-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventaireRepository interface {
	Create(inventaire *model.Inventaire) error
	FindAll(societeID uuid.UUID) ([]model.Inventaire, error)
	FindByID(societeID, id uuid.UUID) (*model.Inventaire, error)

	FindForUpdate(tx *gorm.DB, societeID, id uuid.UUID) (*model.Inventaire, error)
	FindLigne(tx *gorm.DB, inventaireID, produitID uuid.UUID) (*model.LigneInventaire, error)
	FindLignes(tx *gorm.DB, inventaireID uuid.UUID) ([]model.LigneInventaire, error)
	CreateLigne(tx *gorm.DB, ligne *model.LigneInventaire) error
	UpdateQuantiteComptee(tx *gorm.DB, ligneID uuid.UUID, quantite decimal.Decimal) error
	MarkCloture(tx *gorm.DB, id uuid.UUID, updatedBy string) (int64, error)
}

type inventaireRepo struct {
	db *gorm.DB
}

func NewInventaireRepo(db *gorm.DB) InventaireRepository {
	return &inventaireRepo{db}
}

func (r *inventaireRepo) Create(inventaire *model.Inventaire) error {
	return r.db.Omit("Lignes").Create(inventaire).Error
}

func (r *inventaireRepo) FindAll(societeID uuid.UUID) ([]model.Inventaire, error) {
	var inventaires []model.Inventaire
	err := r.db.Where("societe_id = ?", societeID).
		Order("date_inventaire DESC").Order("created_at DESC").
		Find(&inventaires).Error
	return inventaires, err
}

func (r *inventaireRepo) FindByID(societeID, id uuid.UUID) (*model.Inventaire, error) {
	var inventaire model.Inventaire
	err := r.db.Preload("Lignes", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Lignes.Produit").
		First(&inventaire, "id = ? AND societe_id = ?", id, societeID).Error
	if err != nil {
		return nil, err
	}
	return &inventaire, nil
}

func (r *inventaireRepo) FindForUpdate(tx *gorm.DB, societeID, id uuid.UUID) (*model.Inventaire, error) {
	var inventaire model.Inventaire
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inventaire, "id = ? AND societe_id = ?", id, societeID).Error
	if err != nil {
		return nil, err
	}
	return &inventaire, nil
}

func (r *inventaireRepo) FindLigne(tx *gorm.DB, inventaireID, produitID uuid.UUID) (*model.LigneInventaire, error) {
	var ligne model.LigneInventaire
	err := tx.First(&ligne, "inventaire_id = ? AND produit_id = ?", inventaireID, produitID).Error
	if err != nil {
		return nil, err
	}
	return &ligne, nil
}

func (r *inventaireRepo) FindLignes(tx *gorm.DB, inventaireID uuid.UUID) ([]model.LigneInventaire, error) {
	var lignes []model.LigneInventaire
	err := dbOr(tx, r.db).Where("inventaire_id = ?", inventaireID).Order("created_at ASC").Find(&lignes).Error
	return lignes, err
}

func (r *inventaireRepo) CreateLigne(tx *gorm.DB, ligne *model.LigneInventaire) error {
	return tx.Omit("Produit").Create(ligne).Error
}

// UpdateQuantiteComptee touches quantite_comptee only: quantite_systeme is a
// snapshot taken when the line was created.
func (r *inventaireRepo) UpdateQuantiteComptee(tx *gorm.DB, ligneID uuid.UUID, quantite decimal.Decimal) error {
	return tx.Model(&model.LigneInventaire{}).
		Where("id = ?", ligneID).
		Update("quantite_comptee", quantite).Error
}

// MarkCloture flips BROUILLON to CLOTURE. Zero rows affected means the
// inventory was already closed.
func (r *inventaireRepo) MarkCloture(tx *gorm.DB, id uuid.UUID, updatedBy string) (int64, error) {
	res := tx.Model(&model.Inventaire{}).
		Where("id = ? AND statut = ?", id, model.InventaireBrouillon).
		Updates(map[string]interface{}{
			"statut":     model.InventaireCloture,
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}
