package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultUnite = "PIECE"

// Unites lists the units a Produit can be counted in.
var Unites = []string{"PIECE", "KG", "G", "L", "ML", "M", "M2", "M3", "CARTON", "LOT", "HEURE"}

func IsUnite(u string) bool {
	for _, known := range Unites {
		if known == u {
			return true
		}
	}
	return false
}

// Produit is a stock item. QuantiteEnStock is the running balance of its
// MouvementStock ledger and is only written together with a movement.
type Produit struct {
	BaseModel
	SocieteID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_produit_societe_reference" json:"societe_id"`
	Reference       string           `gorm:"type:varchar(50);not null;index:idx_produit_societe_reference" json:"reference"`
	Designation     string           `gorm:"type:varchar(255);not null" json:"designation"`
	Unite           string           `gorm:"type:varchar(20);not null;default:'PIECE'" json:"unite"`
	QuantiteEnStock decimal.Decimal  `gorm:"type:decimal(15,3);not null;default:0" json:"quantite_en_stock"`
	SeuilAlerte     *decimal.Decimal `gorm:"type:decimal(15,3)" json:"seuil_alerte,omitempty"`
}

// NormalizeReference trims and upper-cases a product reference.
func NormalizeReference(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

// EnAlerte reports whether the balance is strictly below the alert threshold.
func (p *Produit) EnAlerte() bool {
	return p.SeuilAlerte != nil && p.QuantiteEnStock.LessThan(*p.SeuilAlerte)
}
