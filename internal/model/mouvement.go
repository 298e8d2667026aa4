package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TypeMouvement string

const (
	MouvementEntree TypeMouvement = "ENTREE"
	MouvementSortie TypeMouvement = "SORTIE"
)

// MouvementStock is an append-only ledger entry. Quantite is always positive;
// Type carries the direction.
type MouvementStock struct {
	BaseModel
	SocieteID uuid.UUID       `gorm:"type:uuid;not null;index" json:"societe_id"`
	ProduitID uuid.UUID       `gorm:"type:uuid;not null;index" json:"produit_id"`
	Produit   *Produit        `gorm:"foreignKey:ProduitID" json:"produit,omitempty"`
	Type      TypeMouvement   `gorm:"type:varchar(10);not null" json:"type"`
	Quantite  decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantite"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Libelle   string          `gorm:"type:varchar(255)" json:"libelle,omitempty"`
}

// Apply returns the balance after this movement.
func (m *MouvementStock) Apply(balance decimal.Decimal) decimal.Decimal {
	if m.Type == MouvementSortie {
		return balance.Sub(m.Quantite)
	}
	return balance.Add(m.Quantite)
}
