package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget holds the yearly targets of a Societe. One row per (societe, annee).
// Budgets are hard deleted, so it does not embed BaseModel's soft delete.
type Budget struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	SocieteID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_societe_annee" json:"societe_id"`
	Annee          int             `gorm:"not null;uniqueIndex:idx_budget_societe_annee" json:"annee"`
	BudgetRecettes decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"budget_recettes"`
	BudgetDepenses decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"budget_depenses"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BudgetAvecComparaison is a Budget together with the actuals of its year.
//
// Sign conventions: a positive EcartRecettes is better than plan, a positive
// EcartDepenses is an overspend.
type BudgetAvecComparaison struct {
	Budget
	ReelRecettes  decimal.Decimal `json:"reel_recettes"`
	ReelDepenses  decimal.Decimal `json:"reel_depenses"`
	EcartRecettes decimal.Decimal `json:"ecart_recettes"`
	EcartDepenses decimal.Decimal `json:"ecart_depenses"`
	EcartResultat decimal.Decimal `json:"ecart_resultat"`
}

// Compare builds the comparison of b against the given actuals.
func (b Budget) Compare(reelRecettes, reelDepenses decimal.Decimal) BudgetAvecComparaison {
	resultatReel := reelRecettes.Sub(reelDepenses)
	resultatBudget := b.BudgetRecettes.Sub(b.BudgetDepenses)
	return BudgetAvecComparaison{
		Budget:        b,
		ReelRecettes:  reelRecettes,
		ReelDepenses:  reelDepenses,
		EcartRecettes: reelRecettes.Sub(b.BudgetRecettes),
		EcartDepenses: reelDepenses.Sub(b.BudgetDepenses),
		EcartResultat: resultatReel.Sub(resultatBudget),
	}
}

// YearBounds returns the half-open interval [Jan 1st, next Jan 1st) in UTC.
func YearBounds(annee int) (time.Time, time.Time) {
	start := time.Date(annee, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
