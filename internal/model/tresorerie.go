package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recette is a cash receipt of a Societe. Sums of Recettes are the actual
// revenue compared against Budget.BudgetRecettes.
type Recette struct {
	BaseModel
	SocieteID uuid.UUID       `gorm:"type:uuid;not null;index:idx_recette_societe_date" json:"societe_id"`
	Date      time.Time       `gorm:"not null;index:idx_recette_societe_date" json:"date"`
	Montant   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"montant"`
	Libelle   string          `gorm:"type:varchar(255);not null" json:"libelle"`
	ClientID  *uuid.UUID      `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Client    *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// Depense is a cash expense of a Societe.
type Depense struct {
	BaseModel
	SocieteID uuid.UUID       `gorm:"type:uuid;not null;index:idx_depense_societe_date" json:"societe_id"`
	Date      time.Time       `gorm:"not null;index:idx_depense_societe_date" json:"date"`
	Montant   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"montant"`
	Libelle   string          `gorm:"type:varchar(255);not null" json:"libelle"`
	Categorie string          `gorm:"type:varchar(100)" json:"categorie,omitempty"`
}
