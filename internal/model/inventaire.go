package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatutInventaire string

const (
	InventaireBrouillon StatutInventaire = "BROUILLON"
	InventaireCloture   StatutInventaire = "CLOTURE"
)

// Inventaire is a physical stock count. BROUILLON -> CLOTURE, never back.
type Inventaire struct {
	BaseModel
	SocieteID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"societe_id"`
	DateInventaire time.Time         `gorm:"not null" json:"date_inventaire"`
	Commentaire    string            `gorm:"type:text" json:"commentaire,omitempty"`
	Statut         StatutInventaire  `gorm:"type:varchar(12);not null;default:'BROUILLON'" json:"statut"`
	Lignes         []LigneInventaire `gorm:"foreignKey:InventaireID" json:"lignes,omitempty"`
}

func (i *Inventaire) IsCloture() bool {
	return i.Statut == InventaireCloture
}

// LigneInventaire is one counted product. QuantiteSysteme is the balance
// captured when the line was first written and is never updated afterwards.
type LigneInventaire struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	InventaireID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ligne_inventaire_produit" json:"inventaire_id"`
	ProduitID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ligne_inventaire_produit" json:"produit_id"`
	Produit         *Produit        `gorm:"foreignKey:ProduitID" json:"produit,omitempty"`
	QuantiteComptee decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantite_comptee"`
	QuantiteSysteme decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantite_systeme"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (l *LigneInventaire) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Ecart is counted minus system quantity.
func (l *LigneInventaire) Ecart() decimal.Decimal {
	return l.QuantiteComptee.Sub(l.QuantiteSysteme)
}
