package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBudgetCompare(t *testing.T) {
	b := Budget{BudgetRecettes: d(1000), BudgetDepenses: d(600)}
	c := b.Compare(d(1200), d(700))

	assert.True(t, c.EcartRecettes.Equal(d(200)), "recettes above plan")
	assert.True(t, c.EcartDepenses.Equal(d(100)), "overspend is positive")
	// (1200-700) - (1000-600) = 100
	assert.True(t, c.EcartResultat.Equal(d(100)))
}

func TestYearBounds(t *testing.T) {
	start, end := YearBounds(2024)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestNormalizeReference(t *testing.T) {
	assert.Equal(t, "ABC-12", NormalizeReference("  abc-12 "))
}

func TestProduitEnAlerte(t *testing.T) {
	seuil := d(5)
	p := Produit{QuantiteEnStock: d(4), SeuilAlerte: &seuil}
	assert.True(t, p.EnAlerte())

	p.QuantiteEnStock = d(5)
	assert.False(t, p.EnAlerte(), "equal to threshold is not an alert")

	p.SeuilAlerte = nil
	p.QuantiteEnStock = d(0)
	assert.False(t, p.EnAlerte())
}

func TestMouvementApply(t *testing.T) {
	in := MouvementStock{Type: MouvementEntree, Quantite: d(10)}
	out := MouvementStock{Type: MouvementSortie, Quantite: d(3)}
	assert.True(t, out.Apply(in.Apply(d(0))).Equal(d(7)))
}

func TestLigneEcartAndRoles(t *testing.T) {
	l := LigneInventaire{QuantiteComptee: d(8), QuantiteSysteme: d(10)}
	assert.True(t, l.Ecart().Equal(d(-2)))

	assert.True(t, RolePME.OwnsSociete())
	assert.False(t, RoleExpert.OwnsSociete())
	assert.False(t, Role("ADMIN").Valid())
	assert.True(t, IsUnite("KG"))
	assert.False(t, IsUnite("kg"))
}
